// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

import (
	"fmt"
	"math"
	"sort"
)

// WeightEpsilon is the magnitude at or below which a weight counts as zero.
const WeightEpsilon = 1e-12

// ValidateWeights fails with ErrInvalidWeights when a weight is NaN or
// infinite, or when every weight has magnitude <= WeightEpsilon.
func ValidateWeights(weights map[string]float64) error {
	usable := false
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		w := weights[name]
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidWeights, name, w)
		}
		if math.Abs(w) > WeightEpsilon {
			usable = true
		}
	}
	if !usable {
		return ErrInvalidWeights
	}
	return nil
}

// Combine returns, for each of n candidates, the sum of weight × score over
// the present signals. A signal without a weight contributes nothing.
// Weights may be negative and are not renormalized.
func Combine(signals []Signal, weights map[string]float64, n int) []float64 {
	final := make([]float64, n)
	for _, s := range signals {
		if !s.Present {
			continue
		}
		w := weights[s.Name]
		if w == 0 {
			continue
		}
		for i := 0; i < n && i < len(s.Scores); i++ {
			final[i] += w * s.Scores[i]
		}
	}
	return final
}
