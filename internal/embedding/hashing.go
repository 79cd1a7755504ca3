// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultHashingDimension is used when no dimension is configured.
const DefaultHashingDimension = 256

// bigramWeight scales bigram features relative to unigrams.
const bigramWeight = 0.5

// HashingProvider embeds text by signed feature hashing of lower-cased word
// unigrams and bigrams, then L2-normalizes. It is deterministic and
// allocation-light; similar vocabularies yield high cosine similarity.
type HashingProvider struct {
	dim int
}

// NewHashingProvider creates a provider with the given dimension.
func NewHashingProvider(dim int) *HashingProvider {
	if dim <= 0 {
		dim = DefaultHashingDimension
	}
	return &HashingProvider{dim: dim}
}

func (h *HashingProvider) Name() string   { return ProviderHashing }
func (h *HashingProvider) Dimension() int { return h.dim }

// Embed never fails except on cancellation.
func (h *HashingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(text)
	}
	return out, nil
}

func (h *HashingProvider) vector(text string) []float32 {
	acc := make([]float64, h.dim)
	tokens := Tokenize(text)
	for i, tok := range tokens {
		h.add(acc, tok, 1)
		if i > 0 {
			h.add(acc, tokens[i-1]+" "+tok, bigramWeight)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	vec := make([]float32, h.dim)
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec
}

func (h *HashingProvider) add(acc []float64, feature string, weight float64) {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(feature))
	sum := hasher.Sum64()
	idx := sum % uint64(h.dim)
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[idx] += weight
}

// Tokenize lower-cases text and splits it into words. Characters common in
// technology names ('+', '#', '.') stay inside tokens so "c++" and "c#"
// survive; trailing dots are trimmed.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.'
	})
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
