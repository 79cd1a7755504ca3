// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

import "sort"

// SelectTopK orders eligible items ahead of ineligible ones, then by score
// descending, breaking ties by ascending catalog index, and keeps at most k.
// Ineligible items only fill slots left over once every eligible item is
// placed, even when eligible scores are negative. The input slice is
// reordered in place. A k larger than len(items) returns everything.
func SelectTopK(items []ScoredCandidate, k int) []ScoredCandidate {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Eligible != items[j].Eligible {
			return items[i].Eligible
		}
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Index < items[j].Index
	})

	if k < 0 {
		k = 0
	}
	if k < len(items) {
		items = items[:k]
	}
	return items
}
