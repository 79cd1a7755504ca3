// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package marketplace

import (
	"context"
	"strings"

	"github.com/tomtom215/skillbridge/internal/recommend"
)

// Notifier is told about every successful ranking. Implemented by the
// event publisher; nil disables notifications.
type Notifier interface {
	RankingServed(ctx context.Context, profile string, actorID int, res *recommend.Result)
}

// RankMeta summarizes a ranking call alongside the results. It holds no
// timing, so repeated identical calls produce identical bodies; request
// duration is reported in the API envelope meta.
type RankMeta struct {
	SnapshotVersion    int64    `json:"snapshot_version"`
	TotalCandidates    int      `json:"total_candidates"`
	EligibleCandidates int      `json:"eligible_candidates"`
	ExcludedCandidates int      `json:"excluded_candidates"`
	SignalsUsed        []string `json:"signals_used"`
	AbsentSignals      []string `json:"absent_signals,omitempty"`
}

func metaFrom(res *recommend.Result) RankMeta {
	return RankMeta{
		SnapshotVersion:    res.SnapshotVersion,
		TotalCandidates:    res.TotalCandidates,
		EligibleCandidates: res.EligibleCandidates,
		ExcludedCandidates: res.ExcludedCandidates,
		SignalsUsed:        res.SignalsUsed,
		AbsentSignals:      res.AbsentSignals,
	}
}

// joinText joins non-blank parts with spaces.
func joinText(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func copyWeights(w map[string]float64) map[string]float64 {
	if w == nil {
		return nil
	}
	out := make(map[string]float64, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}
