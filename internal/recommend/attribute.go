// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

// AttributeMatch returns |query ∩ candidate| / |candidate|, with duplicate
// tags counted once. A candidate without tags scores 0.
func AttributeMatch(queryTags, candidateTags []string) float64 {
	candidate := tagSet(candidateTags)
	if len(candidate) == 0 {
		return 0
	}

	query := tagSet(queryTags)
	matched := 0
	for tag := range candidate {
		if _, ok := query[tag]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(candidate))
}

// TagOverlap returns the candidate tags that also appear in the query, in
// candidate order and without duplicates.
func TagOverlap(queryTags, candidateTags []string) []string {
	query := tagSet(queryTags)
	seen := make(map[string]struct{}, len(candidateTags))
	overlap := make([]string, 0)
	for _, tag := range candidateTags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		if _, ok := query[tag]; ok {
			overlap = append(overlap, tag)
		}
	}
	return overlap
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}
