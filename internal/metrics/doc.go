// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics by the API router.

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Requests in flight (gauge)
  - api_rate_limit_hits_total: Rate limited requests (counter)

Ranking Metrics:
  - ranking_requests_total: Ranking calls (counter)
    Labels: profile, outcome (ok, invalid_input, invalid_weights, no_snapshot, provider_error, ...)
  - ranking_duration_seconds: Ranking latency (histogram)
  - ranking_signal_absent_total: Weighted signals with no contribution (counter)
    Labels: profile, signal

Embedding Metrics:
  - embedding_requests_total, embedding_texts_total, embedding_duration_seconds
    Labels: provider
  - embedding_cache_hits_total (label tier: memory, badger)
  - embedding_cache_misses_total

Catalog Metrics:
  - catalog_snapshot_version, catalog_snapshot_candidates (gauges, label catalog)
  - catalog_refresh_total, catalog_refresh_duration_seconds

Fraud and Event Metrics:
  - fraud_assessments_total (label status), fraud_score (histogram)
  - events_published_total (labels topic, outcome)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total (labels name, result)
  - circuit_breaker_consecutive_failures
  - circuit_breaker_state_transitions_total

# Ranking Observer

RankingObserver satisfies the recommend.Observer interface so the ranking
engine can report without importing this package:

	engine.SetObserver(metrics.RankingObserver{})
*/
package metrics
