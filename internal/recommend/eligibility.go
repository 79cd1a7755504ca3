// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

import (
	"fmt"
	"math"
)

// Predicate is a hard eligibility rule.
type Predicate interface {
	Name() string
	Admit(c *Candidate) bool
}

// Admit reports whether c passes every predicate.
func Admit(c *Candidate, preds []Predicate) bool {
	for _, p := range preds {
		if !p.Admit(c) {
			return false
		}
	}
	return true
}

// RangePredicate admits candidates whose attribute lies in [Min, Max].
// A candidate without the attribute is rejected.
type RangePredicate struct {
	Attribute string
	Min       float64
	Max       float64
}

// NewRangePredicate validates the bounds.
func NewRangePredicate(attribute string, lo, hi float64) (RangePredicate, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return RangePredicate{}, NewInputError(attribute, "range bounds must be numbers")
	}
	if lo > hi {
		return RangePredicate{}, NewInputError(attribute, "min %g is greater than max %g", lo, hi)
	}
	return RangePredicate{Attribute: attribute, Min: lo, Max: hi}, nil
}

func (p RangePredicate) Name() string {
	return fmt.Sprintf("%s in [%g, %g]", p.Attribute, p.Min, p.Max)
}

func (p RangePredicate) Admit(c *Candidate) bool {
	v, ok := c.Attribute(p.Attribute)
	return ok && v >= p.Min && v <= p.Max
}

// MinimumPredicate admits candidates whose attribute is at least Min.
type MinimumPredicate struct {
	Attribute string
	Min       float64
}

func (p MinimumPredicate) Name() string {
	return fmt.Sprintf("%s >= %g", p.Attribute, p.Min)
}

func (p MinimumPredicate) Admit(c *Candidate) bool {
	v, ok := c.Attribute(p.Attribute)
	return ok && v >= p.Min
}

// excludeIDs rejects a fixed set of candidate IDs.
type excludeIDs map[int]struct{}

// ExcludeIDs returns a predicate rejecting the given candidate IDs.
func ExcludeIDs(ids []int) Predicate {
	set := make(excludeIDs, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (e excludeIDs) Name() string {
	return fmt.Sprintf("exclude %d ids", len(e))
}

func (e excludeIDs) Admit(c *Candidate) bool {
	_, excluded := e[c.ID]
	return !excluded
}
