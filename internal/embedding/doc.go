// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

/*
Package embedding provides the text-to-vector providers used by the ranking
engine.

# Providers

  - HashingProvider: deterministic feature hashing of word unigrams and
    bigrams. No network, no model files. Used by default, in tests and by
    the offline CLI.
  - GeminiProvider: Google Gemini embeddings through google.golang.org/genai.

# Decorators

Providers are composed the same way regardless of backend:

	Cached( Resilient( Gemini ) )

ResilientProvider adds a token-bucket rate limit (golang.org/x/time/rate)
and a circuit breaker (sony/gobreaker). It never retries; a failed call is
reported to the ranking engine, which surfaces it as a provider failure.

CachedProvider keeps recently used vectors in an in-process LRU and, when a
BadgerStore is configured, in a persistent content-addressed store keyed by
provider, dimension and the SHA-256 of the text.

NewFromConfig wires the full stack from configuration.
*/
package embedding
