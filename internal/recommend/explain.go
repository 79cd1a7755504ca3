// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

import (
	"fmt"
	"strings"
)

// DefaultOverlapLimit is how many overlapping tags a reason lists before
// summarizing the rest.
const DefaultOverlapLimit = 3

// ReasonContext is what a ReasonRule sees for one ranked candidate.
type ReasonContext struct {
	Query     *Query
	Candidate *Candidate
	Signals   map[string]float64
}

// ReasonRule produces one justification or reports that it does not apply.
type ReasonRule func(rc *ReasonContext) (string, bool)

// Explainer applies its rules in order. When none applies it returns the
// fallback, if any.
type Explainer struct {
	Rules    []ReasonRule
	Fallback string
}

// Explain returns the reasons for one candidate.
func (e *Explainer) Explain(rc *ReasonContext) []string {
	if e == nil {
		return nil
	}
	reasons := make([]string, 0, len(e.Rules))
	for _, rule := range e.Rules {
		if reason, ok := rule(rc); ok {
			reasons = append(reasons, reason)
		}
	}
	if len(reasons) == 0 && e.Fallback != "" {
		reasons = append(reasons, e.Fallback)
	}
	return reasons
}

// TagOverlapRule lists up to limit overlapping tags in candidate order,
// e.g. "Skills match: go, sql, grpc and 2 more".
func TagOverlapRule(prefix string, limit int) ReasonRule {
	if limit <= 0 {
		limit = DefaultOverlapLimit
	}
	return func(rc *ReasonContext) (string, bool) {
		overlap := TagOverlap(rc.Query.Tags, rc.Candidate.Tags)
		if len(overlap) == 0 {
			return "", false
		}
		return FormatOverlap(prefix, overlap, limit), true
	}
}

// FormatOverlap renders "prefix: a, b, c and N more".
func FormatOverlap(prefix string, tags []string, limit int) string {
	shown := tags
	if len(shown) > limit {
		shown = shown[:limit]
	}
	reason := prefix + ": " + strings.Join(shown, ", ")
	if extra := len(tags) - len(shown); extra > 0 {
		reason += fmt.Sprintf(" and %d more", extra)
	}
	return reason
}

// CategoryRule fires when the query and candidate share a category,
// e.g. "Same industry: Fintech".
func CategoryRule(prefix string) ReasonRule {
	return func(rc *ReasonContext) (string, bool) {
		if rc.Query.Category == "" || rc.Query.Category != rc.Candidate.Category {
			return "", false
		}
		return prefix + ": " + rc.Candidate.Category, true
	}
}

// AttributeFactRule states a candidate attribute whenever it is set.
func AttributeFactRule(attribute string, format func(float64) string) ReasonRule {
	return func(rc *ReasonContext) (string, bool) {
		v, ok := rc.Candidate.Attribute(attribute)
		if !ok {
			return "", false
		}
		return format(v), true
	}
}

// ThresholdRule states a candidate attribute when it is at least min.
func ThresholdRule(attribute string, minimum float64, format func(float64) string) ReasonRule {
	return func(rc *ReasonContext) (string, bool) {
		v, ok := rc.Candidate.Attribute(attribute)
		if !ok || v < minimum {
			return "", false
		}
		return format(v), true
	}
}

// SignalRule fires when a signal score is at least minimum.
func SignalRule(signal string, minimum float64, text string) ReasonRule {
	return func(rc *ReasonContext) (string, bool) {
		v, ok := rc.Signals[signal]
		if !ok || v < minimum {
			return "", false
		}
		return text, true
	}
}
