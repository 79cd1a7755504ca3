// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Note: This package has no dependencies on other internal packages.
// Catalog sources, embedders and metrics plug in through interfaces.

// Profile parameterizes the generic pipeline for one kind of ranking.
type Profile struct {
	// Name identifies the profile in logs, metrics and results.
	Name string

	// Scorers produce the candidate signals. Scorers whose weight is zero
	// for a call are not run.
	Scorers []Scorer

	// DefaultWeights apply when a query carries no weights.
	DefaultWeights map[string]float64

	// DefaultK applies when Rank is called with k == 0.
	DefaultK int

	// Validate rejects malformed queries before any scoring. Optional.
	Validate func(q *Query) error

	// Predicates builds the eligibility rules for a query. Optional.
	Predicates func(q *Query) ([]Predicate, error)

	// Explainer produces the reasons for returned candidates. Optional.
	Explainer *Explainer

	// ExcludeHistory drops candidates in Query.History from the result.
	ExcludeHistory bool
}

// SignalNames returns the names of the profile's scorers in order.
func (p *Profile) SignalNames() []string {
	names := make([]string, len(p.Scorers))
	for i, s := range p.Scorers {
		names[i] = s.Name()
	}
	return names
}

// Observer receives ranking telemetry. Implemented by package metrics.
type Observer interface {
	ObserveRank(profile, outcome string, elapsed time.Duration)
	ObserveAbsentSignal(profile, signal string)
}

// Engine runs the ranking pipeline of one profile against a snapshot
// loader. It is safe for concurrent use.
type Engine struct {
	profile   Profile
	snapshots SnapshotLoader
	embedder  Embedder
	config    *Config
	logger    zerolog.Logger
	observer  Observer

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewEngine creates an engine. embedder may be nil when no scorer of the
// profile needs query embeddings.
//
//nolint:gocritic // profile and logger passed by value are copied once at construction
func NewEngine(profile Profile, snapshots SnapshotLoader, embedder Embedder, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if profile.Name == "" {
		return nil, fmt.Errorf("profile name is required")
	}
	if len(profile.Scorers) == 0 {
		return nil, fmt.Errorf("profile %s has no scorers", profile.Name)
	}
	if snapshots == nil {
		return nil, fmt.Errorf("profile %s has no snapshot loader", profile.Name)
	}
	if profile.DefaultK < 1 {
		profile.DefaultK = 10
	}

	seen := make(map[string]struct{}, len(profile.Scorers))
	for _, s := range profile.Scorers {
		if _, dup := seen[s.Name()]; dup {
			return nil, fmt.Errorf("profile %s: duplicate signal %q", profile.Name, s.Name())
		}
		seen[s.Name()] = struct{}{}
	}

	return &Engine{
		profile:   profile,
		snapshots: snapshots,
		embedder:  embedder,
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Str("profile", profile.Name).Logger(),
	}, nil
}

// SetObserver installs a telemetry observer.
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// Profile returns a copy of the engine's profile with its default weights
// copied too.
func (e *Engine) Profile() Profile {
	p := e.profile
	p.DefaultWeights = make(map[string]float64, len(e.profile.DefaultWeights))
	for k, v := range e.profile.DefaultWeights {
		p.DefaultWeights[k] = v
	}
	return p
}

// Stats returns the request and error counters.
func (e *Engine) Stats() (requests, failures int64) {
	return e.requestCount.Load(), e.errorCount.Load()
}

// Rank scores every snapshot candidate for q and returns the top k.
// k == 0 selects the profile default; k above the configured maximum is
// clamped.
func (e *Engine) Rank(ctx context.Context, q *Query, k int) (res *Result, err error) {
	start := time.Now()
	e.requestCount.Add(1)
	defer func() {
		if err != nil {
			e.errorCount.Add(1)
		}
		if e.observer != nil {
			e.observer.ObserveRank(e.profile.Name, rankOutcome(err), time.Since(start))
		}
	}()

	k, weights, preds, err := e.prepare(q, k)
	if err != nil {
		return nil, err
	}

	snap, err := e.snapshots.Load()
	if err != nil {
		return nil, err
	}
	if snap.Len() > e.config.Limits.MaxCandidates {
		return nil, fmt.Errorf("catalog %s has %d candidates, limit is %d",
			snap.Catalog, snap.Len(), e.config.Limits.MaxCandidates)
	}

	scoreCtx, cancel := context.WithTimeout(ctx, e.config.Limits.ScoreTimeout)
	defer cancel()

	active := e.activeScorers(weights)
	signals, err := e.runScorers(scoreCtx, q, snap, active)
	if err != nil {
		return nil, err
	}

	final := Combine(signals, weights, snap.Len())
	res = e.assemble(q, snap, signals, final, preds, k)
	res.LatencyMS = time.Since(start).Milliseconds()

	for _, name := range res.AbsentSignals {
		if e.observer != nil {
			e.observer.ObserveAbsentSignal(e.profile.Name, name)
		}
	}

	e.logger.Debug().
		Int("actor_id", q.ActorID).
		Int("candidates", res.TotalCandidates).
		Int("eligible", res.EligibleCandidates).
		Int("returned", len(res.Items)).
		Strs("absent_signals", res.AbsentSignals).
		Int64("snapshot_version", snap.Version).
		Int64("latency_ms", res.LatencyMS).
		Msg("ranking complete")

	return res, nil
}

// prepare validates the query and resolves k, weights and predicates.
func (e *Engine) prepare(q *Query, k int) (int, map[string]float64, []Predicate, error) {
	if q == nil {
		return 0, nil, nil, NewInputError("query", "is required")
	}
	if k < 0 {
		return 0, nil, nil, NewInputError("k", "must not be negative, got %d", k)
	}
	if k == 0 {
		k = e.profile.DefaultK
	}
	if k > e.config.Limits.MaxK {
		k = e.config.Limits.MaxK
	}

	if e.profile.Validate != nil {
		if err := e.profile.Validate(q); err != nil {
			return 0, nil, nil, err
		}
	}

	weights := q.Weights
	if weights == nil {
		weights = e.profile.DefaultWeights
	}
	if err := ValidateWeights(weights); err != nil {
		return 0, nil, nil, err
	}

	var preds []Predicate
	if e.profile.Predicates != nil {
		var err error
		if preds, err = e.profile.Predicates(q); err != nil {
			return 0, nil, nil, err
		}
	}
	return k, weights, preds, nil
}

// activeScorers returns the scorers with a usable weight, in profile order.
func (e *Engine) activeScorers(weights map[string]float64) []Scorer {
	active := make([]Scorer, 0, len(e.profile.Scorers))
	for _, s := range e.profile.Scorers {
		if math.Abs(weights[s.Name()]) > WeightEpsilon {
			active = append(active, s)
		}
	}
	return active
}

// runScorers embeds the query texts once, then runs the scorers in parallel.
func (e *Engine) runScorers(ctx context.Context, q *Query, snap *Snapshot, active []Scorer) ([]Signal, error) {
	vectors, err := e.embedQuery(ctx, q, snap, active)
	if err != nil {
		return nil, err
	}

	in := &ScoreInput{Query: q, Snapshot: snap, QueryVectors: vectors}
	signals := make([]Signal, len(active))
	n := snap.Len()

	g, gctx := errgroup.WithContext(ctx)
	for i, scorer := range active {
		g.Go(func() error {
			sig, err := scorer.Score(gctx, in)
			if err != nil {
				return fmt.Errorf("scorer %s: %w", scorer.Name(), err)
			}
			if sig.Present && len(sig.Scores) != n {
				return fmt.Errorf("scorer %s returned %d scores for %d candidates", scorer.Name(), len(sig.Scores), n)
			}
			sig.Name = scorer.Name()
			signals[i] = sig
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return signals, nil
}

// embedQuery embeds each distinct non-empty query text needed by the
// active scorers with a single provider call.
func (e *Engine) embedQuery(ctx context.Context, q *Query, snap *Snapshot, active []Scorer) (map[string][]float32, error) {
	fieldSeen := make(map[string]struct{})
	var fields []string
	for _, s := range active {
		ts, ok := s.(TextScorer)
		if !ok {
			continue
		}
		for _, f := range ts.QueryFields() {
			if _, dup := fieldSeen[f]; dup {
				continue
			}
			fieldSeen[f] = struct{}{}
			if strings.TrimSpace(q.Text[f]) != "" {
				fields = append(fields, f)
			}
		}
	}

	vectors := make(map[string][]float32, len(fields))
	if len(fields) == 0 {
		return vectors, nil
	}
	if e.embedder == nil {
		return nil, fmt.Errorf("profile %s needs an embedder for query fields %v", e.profile.Name, fields)
	}

	textIndex := make(map[string]int, len(fields))
	texts := make([]string, 0, len(fields))
	for _, f := range fields {
		t := q.Text[f]
		if _, dup := textIndex[t]; !dup {
			textIndex[t] = len(texts)
			texts = append(texts, t)
		}
	}

	out, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, &ProviderError{Provider: e.embedder.Name(), Err: err}
	}
	if len(out) != len(texts) {
		return nil, &ProviderError{
			Provider: e.embedder.Name(),
			Err:      fmt.Errorf("returned %d vectors for %d texts", len(out), len(texts)),
		}
	}

	for _, f := range fields {
		v := out[textIndex[q.Text[f]]]
		if snap.Dimension > 0 && len(v) != snap.Dimension {
			return nil, fmt.Errorf("%w: query field %s has %d, snapshot has %d",
				ErrDimensionMismatch, f, len(v), snap.Dimension)
		}
		vectors[f] = v
	}
	return vectors, nil
}

// assemble applies eligibility, selects the top k and explains them.
func (e *Engine) assemble(q *Query, snap *Snapshot, signals []Signal, final []float64, preds []Predicate, k int) *Result {
	res := &Result{
		Profile:         e.profile.Name,
		TotalCandidates: snap.Len(),
		SnapshotVersion: snap.Version,
		RankedAt:        time.Now().UTC(),
		SignalsUsed:     []string{},
	}
	for _, s := range signals {
		if s.Present {
			res.SignalsUsed = append(res.SignalsUsed, s.Name)
		} else {
			res.AbsentSignals = append(res.AbsentSignals, s.Name)
		}
	}

	var history map[int]struct{}
	if e.profile.ExcludeHistory && len(q.History) > 0 {
		history = make(map[int]struct{}, len(q.History))
		for _, id := range q.History {
			history[id] = struct{}{}
		}
	}

	items := make([]ScoredCandidate, 0, snap.Len())
	for i := range snap.Candidates {
		c := &snap.Candidates[i]
		if _, seen := history[c.ID]; seen {
			res.ExcludedCandidates++
			continue
		}
		item := ScoredCandidate{Candidate: c, Index: i, Score: final[i], Eligible: Admit(c, preds)}
		if item.Eligible {
			res.EligibleCandidates++
		} else {
			item.Score = 0
		}
		items = append(items, item)
	}

	items = SelectTopK(items, k)
	for j := range items {
		item := &items[j]
		item.Signals = make(map[string]float64, len(signals))
		for _, s := range signals {
			if s.Present {
				item.Signals[s.Name] = s.Scores[item.Index]
			}
		}
		item.Reasons = e.profile.Explainer.Explain(&ReasonContext{
			Query:     q,
			Candidate: item.Candidate,
			Signals:   item.Signals,
		})
		if item.Reasons == nil {
			item.Reasons = []string{}
		}
	}
	res.Items = items
	return res
}

func rankOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInvalidWeights):
		return "invalid_weights"
	case errors.Is(err, ErrNoSnapshot):
		return "no_snapshot"
	case errors.Is(err, ErrProviderFailure):
		return "provider_error"
	case errors.Is(err, ErrDimensionMismatch):
		return "dimension_mismatch"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "error"
	}
}
