// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

import (
	"context"
	"time"
)

// Candidate is a rankable catalog entity (a project, a mentor).
type Candidate struct {
	// ID is the catalog identifier. It is unique within a snapshot.
	ID int `json:"id"`

	// Name is a display name or title.
	Name string `json:"name"`

	// Tags are the declared skills of the candidate.
	Tags []string `json:"tags"`

	// Category is a single categorical label such as an industry.
	Category string `json:"category,omitempty"`

	// Text holds named free-text fields (description, bio, skills).
	// Fields listed in SnapshotBuilder.Fields are embedded at build time.
	Text map[string]string `json:"text,omitempty"`

	// Attributes holds named numeric fields (hourly_rate, rating, budget).
	Attributes map[string]float64 `json:"attributes,omitempty"`
}

// Attribute returns the named numeric attribute and whether it is set.
func (c *Candidate) Attribute(name string) (float64, bool) {
	v, ok := c.Attributes[name]
	return v, ok
}

// TextField returns the named text field or "".
func (c *Candidate) TextField(name string) string {
	return c.Text[name]
}

// Catalog is what a CatalogSource loads: the candidates plus the
// engagement histories used by collaborative scoring.
type Catalog struct {
	Candidates []Candidate `json:"candidates"`

	// Histories maps an actor ID to the candidate IDs that actor engaged with.
	Histories map[int][]int `json:"histories,omitempty"`
}

// CatalogSource loads a catalog from external storage. The engine never
// writes back.
type CatalogSource interface {
	Name() string
	Load(ctx context.Context) (*Catalog, error)
}

// Embedder turns texts into fixed-dimension vectors. Implementations live
// in package embedding.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Query is the profile a ranking call is made for.
type Query struct {
	// ActorID identifies the requester. It is excluded from collaborative
	// neighbours.
	ActorID int `json:"actor_id"`

	// Tags are the requested skills.
	Tags []string `json:"tags"`

	// Category is matched against Candidate.Category.
	Category string `json:"category,omitempty"`

	// Categories is a set of preferred categories.
	Categories []string `json:"categories,omitempty"`

	// Text holds named query texts that semantic scorers embed.
	Text map[string]string `json:"text,omitempty"`

	// Attributes holds numeric query facts such as experience_years.
	Attributes map[string]float64 `json:"attributes,omitempty"`

	// History lists candidate IDs the actor already engaged with.
	History []int `json:"history,omitempty"`

	// Weights maps a signal name to its coefficient. A nil map selects the
	// profile defaults. Missing names weigh 0.
	Weights map[string]float64 `json:"weights,omitempty"`

	// Constraints are the hard filters for this call.
	Constraints Constraints `json:"constraints"`
}

// Constraints are eligibility inputs. Profiles turn them into predicates.
type Constraints struct {
	BudgetMin     *float64 `json:"budget_min,omitempty"`
	BudgetMax     *float64 `json:"budget_max,omitempty"`
	MinAvailHours *float64 `json:"min_availability_hours,omitempty"`
	ExcludeIDs    []int    `json:"exclude_ids,omitempty"`
}

// Signal is one scorer's output for a whole snapshot.
type Signal struct {
	Name string

	// Scores is aligned with Snapshot.Candidates.
	Scores []float64

	// Present is false when the scorer had nothing to say for this query
	// (NoSignal). Absent signals are left out of the weighted sum.
	Present bool
}

// ScoredCandidate is a candidate with its per-call scores. It is never
// persisted.
type ScoredCandidate struct {
	Candidate *Candidate `json:"candidate"`

	// Index is the catalog position. It breaks score ties.
	Index int `json:"index"`

	Score    float64            `json:"score"`
	Signals  map[string]float64 `json:"signals"`
	Eligible bool               `json:"eligible"`
	Reasons  []string           `json:"reasons"`
}

// Result is the output of Engine.Rank.
type Result struct {
	Profile string            `json:"profile"`
	Items   []ScoredCandidate `json:"items"`

	// TotalCandidates is the snapshot size.
	TotalCandidates int `json:"total_candidates"`

	// EligibleCandidates counts candidates that passed every predicate.
	EligibleCandidates int `json:"eligible_candidates"`

	// ExcludedCandidates counts candidates dropped because the actor already
	// engaged with them.
	ExcludedCandidates int `json:"excluded_candidates"`

	SignalsUsed     []string `json:"signals_used"`
	AbsentSignals   []string `json:"absent_signals,omitempty"`
	SnapshotVersion int64    `json:"snapshot_version"`

	// Timing is not serialized; logs and events carry it.
	LatencyMS int64     `json:"-"`
	RankedAt  time.Time `json:"-"`
}
