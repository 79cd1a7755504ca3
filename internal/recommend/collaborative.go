// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

import "sort"

// CollaborativeScores scores candidates by co-occurrence with actors whose
// histories overlap queryHistory.
//
// Each other actor contributes its Jaccard similarity with queryHistory to
// every candidate it engaged with that is not already in queryHistory.
// Totals are divided by the largest total of this call. The boolean result
// is false when no candidate received any score (empty history, no
// overlapping actor); callers treat that as an absent signal.
//
// Actors are visited in ascending ID order so float accumulation is
// reproducible.
func CollaborativeScores(queryHistory []int, histories map[int][]int, excludeActor int) (map[int]float64, bool) {
	scores := make(map[int]float64)
	if len(queryHistory) == 0 {
		return scores, false
	}

	query := make(map[int]struct{}, len(queryHistory))
	for _, id := range queryHistory {
		query[id] = struct{}{}
	}

	actors := make([]int, 0, len(histories))
	for actor := range histories {
		if actor != excludeActor {
			actors = append(actors, actor)
		}
	}
	sort.Ints(actors)

	for _, actor := range actors {
		sim := jaccard(query, histories[actor])
		if sim == 0 {
			continue
		}
		for _, id := range histories[actor] {
			if _, seen := query[id]; !seen {
				scores[id] += sim
			}
		}
	}

	maxScore := 0.0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore == 0 {
		return map[int]float64{}, false
	}

	for id := range scores {
		scores[id] /= maxScore
	}
	return scores, true
}

// jaccard returns |a ∩ b| / |a ∪ b| with duplicates in b counted once.
func jaccard(a map[int]struct{}, bList []int) float64 {
	b := make(map[int]struct{}, len(bList))
	for _, id := range bList {
		b[id] = struct{}{}
	}

	inter := 0
	for id := range b {
		if _, ok := a[id]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
