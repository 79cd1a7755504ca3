// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

import (
	"context"
	"fmt"
	"math"
)

// ctxCheckEvery is how many candidates a scorer processes between
// cancellation checks.
const ctxCheckEvery = 256

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. A zero-norm vector yields 0. Vectors of different length yield
// ErrDimensionMismatch; they are never truncated or padded.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp float drift.
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return sim, nil
}

// SimilarityScores scores every candidate vector against query, in input
// order. A nil candidate vector (no text for the field) scores 0.
func SimilarityScores(query []float32, candidates [][]float32) ([]float64, error) {
	return similarityScores(context.Background(), query, candidates)
}

func similarityScores(ctx context.Context, query []float32, candidates [][]float32) ([]float64, error) {
	scores := make([]float64, len(candidates))
	for i, vec := range candidates {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if vec == nil {
			continue
		}
		sim, err := CosineSimilarity(query, vec)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		scores[i] = sim
	}
	return scores, nil
}
