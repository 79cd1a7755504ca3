// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockEmbedder returns fixed vectors per text and counts calls.
type mockEmbedder struct {
	vectors map[string][]float32
	dim     int
	err     error

	calls atomic.Int32
	mu    sync.Mutex
	texts []string
}

func (m *mockEmbedder) Name() string   { return "mock" }
func (m *mockEmbedder) Dimension() int { return m.dim }

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.texts = append(m.texts, texts...)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := m.vectors[t]
		if !ok {
			v = make([]float32, m.dim)
		}
		out[i] = v
	}
	return out, nil
}

// mockObserver records telemetry calls.
type mockObserver struct {
	mu       sync.Mutex
	outcomes []string
	absent   []string
}

func (o *mockObserver) ObserveRank(_ string, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *mockObserver) ObserveAbsentSignal(_ string, signal string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.absent = append(o.absent, signal)
}

// countingScorer wraps a scorer and counts invocations.
type countingScorer struct {
	Scorer
	calls atomic.Int32
}

func (c *countingScorer) Score(ctx context.Context, in *ScoreInput) (Signal, error) {
	c.calls.Add(1)
	return c.Scorer.Score(ctx, in)
}

func newTestStore(t *testing.T, cat *Catalog, vectors map[string][][]float32, dim int) *SnapshotStore {
	t.Helper()
	snap, err := NewSnapshot("test", 0, cat, vectors, dim)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	store := NewSnapshotStore(&SnapshotBuilder{Catalog: "test"}, zerolog.Nop())
	store.Set(snap)
	return store
}

func newTestEngine(t *testing.T, profile Profile, store SnapshotLoader, emb Embedder) *Engine {
	t.Helper()
	engine, err := NewEngine(profile, store, emb, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func idsOf(items []ScoredCandidate) []int {
	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.Candidate.ID
	}
	return ids
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func attrProfile() Profile {
	return Profile{
		Name:           "attr",
		Scorers:        []Scorer{&AttributeScorer{Signal: "attr"}},
		DefaultWeights: map[string]float64{"attr": 1},
		DefaultK:       10,
	}
}

func TestEngine_TagOverlapRanking(t *testing.T) {
	t.Parallel()

	cat := &Catalog{Candidates: []Candidate{
		{ID: 1, Tags: []string{"X", "Y"}},
		{ID: 2, Tags: []string{"X"}},
		{ID: 3, Tags: []string{"Z"}},
	}}
	engine := newTestEngine(t, attrProfile(), newTestStore(t, cat, nil, 0), nil)

	res, err := engine.Rank(context.Background(), &Query{Tags: []string{"X"}, Weights: map[string]float64{"attr": 1}}, 3)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	wantIDs := []int{2, 1, 3}
	wantScores := []float64{1.0, 0.5, 0.0}
	if got := idsOf(res.Items); !equalInts(got, wantIDs) {
		t.Fatalf("ids = %v, want %v", got, wantIDs)
	}
	for i, want := range wantScores {
		if !approxEqual(res.Items[i].Score, want) {
			t.Errorf("item %d score = %f, want %f", i, res.Items[i].Score, want)
		}
	}
}

func TestEngine_CollaborativeExcludesHistory(t *testing.T) {
	t.Parallel()

	cat := &Catalog{
		Candidates: []Candidate{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}},
		Histories: map[int][]int{
			100: {1, 2, 3},
			200: {2, 3, 4},
		},
	}
	profile := Profile{
		Name:           "collab",
		Scorers:        []Scorer{&CollaborativeScorer{Signal: "collaborative"}},
		DefaultWeights: map[string]float64{"collaborative": 1},
		ExcludeHistory: true,
	}
	engine := newTestEngine(t, profile, newTestStore(t, cat, nil, 0), nil)

	res, err := engine.Rank(context.Background(), &Query{ActorID: 100, History: []int{1, 2, 3}}, 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	if res.ExcludedCandidates != 3 {
		t.Errorf("ExcludedCandidates = %d, want 3", res.ExcludedCandidates)
	}
	for _, it := range res.Items {
		switch it.Candidate.ID {
		case 1, 2, 3:
			t.Errorf("history item %d was returned", it.Candidate.ID)
		case 4:
			if it.Score <= 0 {
				t.Errorf("candidate 4 score = %f, want > 0", it.Score)
			}
		}
	}
	if res.Items[0].Candidate.ID != 4 {
		t.Errorf("top item = %d, want 4", res.Items[0].Candidate.ID)
	}
}

func TestEngine_DisjointHistoriesAbsentSignal(t *testing.T) {
	t.Parallel()

	cat := &Catalog{
		Candidates: []Candidate{{ID: 1, Tags: []string{"go"}}, {ID: 2}, {ID: 3}, {ID: 4}},
		Histories: map[int][]int{
			100: {1, 2},
			200: {3, 4},
		},
	}
	profile := Profile{
		Name: "hybrid",
		Scorers: []Scorer{
			&AttributeScorer{Signal: "attr"},
			&CollaborativeScorer{Signal: "collaborative"},
		},
		DefaultWeights: map[string]float64{"attr": 0.6, "collaborative": 0.4},
	}
	obs := &mockObserver{}
	engine := newTestEngine(t, profile, newTestStore(t, cat, nil, 0), nil)
	engine.SetObserver(obs)

	res, err := engine.Rank(context.Background(), &Query{ActorID: 100, Tags: []string{"go"}, History: []int{1, 2}}, 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	if len(res.AbsentSignals) != 1 || res.AbsentSignals[0] != "collaborative" {
		t.Errorf("AbsentSignals = %v, want [collaborative]", res.AbsentSignals)
	}
	// Only the attribute signal contributes; no renormalization.
	if !approxEqual(res.Items[0].Score, 0.6) {
		t.Errorf("top score = %f, want 0.6", res.Items[0].Score)
	}
	if _, ok := res.Items[0].Signals["collaborative"]; ok {
		t.Error("absent signal appears in breakdown")
	}
	if len(obs.absent) != 1 || obs.outcomes[0] != "ok" {
		t.Errorf("observer = %+v", obs)
	}
}

func TestEngine_EligibilityZeroesScore(t *testing.T) {
	t.Parallel()

	cat := &Catalog{Candidates: []Candidate{
		{ID: 1, Tags: []string{"go"}, Attributes: map[string]float64{"rate": 5000}},
		{ID: 2, Tags: []string{"go", "sql"}, Attributes: map[string]float64{"rate": 1500}},
		{ID: 3, Tags: []string{"java"}, Attributes: map[string]float64{"rate": 1200}},
	}}
	profile := attrProfile()
	profile.Predicates = func(q *Query) ([]Predicate, error) {
		p, err := NewRangePredicate("rate", *q.Constraints.BudgetMin, *q.Constraints.BudgetMax)
		if err != nil {
			return nil, err
		}
		return []Predicate{p}, nil
	}
	engine := newTestEngine(t, profile, newTestStore(t, cat, nil, 0), nil)

	lo, hi := 1000.0, 2000.0
	q := &Query{Tags: []string{"go"}, Constraints: Constraints{BudgetMin: &lo, BudgetMax: &hi}}

	t.Run("out of range candidate scores zero", func(t *testing.T) {
		t.Parallel()
		res, err := engine.Rank(context.Background(), q, 10)
		if err != nil {
			t.Fatalf("Rank: %v", err)
		}
		if res.EligibleCandidates != 2 {
			t.Errorf("EligibleCandidates = %d, want 2", res.EligibleCandidates)
		}
		for _, it := range res.Items {
			if it.Candidate.ID == 1 {
				if it.Score != 0 || it.Eligible {
					t.Errorf("candidate 1 = score %f eligible %v, want 0 false", it.Score, it.Eligible)
				}
			}
		}
		// The rejected candidate only fills the slot left after both
		// eligible ones, even though candidate 3 also scores zero.
		if got := idsOf(res.Items); !equalInts(got, []int{2, 3, 1}) {
			t.Errorf("ids = %v, want [2 3 1]", got)
		}
	})

	t.Run("rejected candidate absent when enough eligible", func(t *testing.T) {
		t.Parallel()
		res, err := engine.Rank(context.Background(), q, 1)
		if err != nil {
			t.Fatalf("Rank: %v", err)
		}
		if got := idsOf(res.Items); !equalInts(got, []int{2}) {
			t.Errorf("ids = %v, want [2]", got)
		}
	})

	t.Run("min above max is an input error", func(t *testing.T) {
		t.Parallel()
		bad := &Query{Tags: []string{"go"}, Constraints: Constraints{BudgetMin: &hi, BudgetMax: &lo}}
		_, err := engine.Rank(context.Background(), bad, 10)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})
}

func TestEngine_EligibilityWithNegativeScores(t *testing.T) {
	t.Parallel()

	byAttr := func() Profile {
		return Profile{
			Name: "signed",
			Scorers: []Scorer{&FuncScorer{
				Signal: "raw",
				Fn:     func(_ *Query, c *Candidate) float64 { return c.Attributes["raw"] },
			}},
			DefaultWeights: map[string]float64{"raw": 1},
			DefaultK:       10,
			Predicates: func(*Query) ([]Predicate, error) {
				p, err := NewRangePredicate("rate", 1000, 2000)
				if err != nil {
					return nil, err
				}
				return []Predicate{p}, nil
			},
		}
	}

	tests := []struct {
		name     string
		raw      [3]float64
		weight   float64
		k        int
		wantIDs  []int
		wantLast bool
	}{
		{
			name:    "negative signal scores",
			raw:     [3]float64{0.9, -0.4, -0.2},
			weight:  1,
			k:       2,
			wantIDs: []int{3, 2},
		},
		{
			name:    "negative weight",
			raw:     [3]float64{0.1, 0.4, 0.2},
			weight:  -1,
			k:       2,
			wantIDs: []int{3, 2},
		},
		{
			name:     "rejected fills leftover slot",
			raw:      [3]float64{0.9, -0.4, -0.2},
			weight:   1,
			k:        3,
			wantIDs:  []int{3, 2, 1},
			wantLast: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cat := &Catalog{Candidates: []Candidate{
				{ID: 1, Tags: []string{"go"}, Attributes: map[string]float64{"rate": 5000, "raw": tt.raw[0]}},
				{ID: 2, Tags: []string{"go"}, Attributes: map[string]float64{"rate": 1500, "raw": tt.raw[1]}},
				{ID: 3, Tags: []string{"go"}, Attributes: map[string]float64{"rate": 1200, "raw": tt.raw[2]}},
			}}
			engine := newTestEngine(t, byAttr(), newTestStore(t, cat, nil, 0), nil)

			q := &Query{Tags: []string{"go"}, Weights: map[string]float64{"raw": tt.weight}}
			res, err := engine.Rank(context.Background(), q, tt.k)
			if err != nil {
				t.Fatalf("Rank: %v", err)
			}
			if got := idsOf(res.Items); !equalInts(got, tt.wantIDs) {
				t.Fatalf("ids = %v, want %v", got, tt.wantIDs)
			}
			for i, it := range res.Items {
				rejected := tt.wantLast && i == len(res.Items)-1
				if it.Eligible == rejected {
					t.Errorf("position %d eligible = %v, want %v", i, it.Eligible, !rejected)
				}
				if rejected && it.Score != 0 {
					t.Errorf("rejected score = %f, want 0", it.Score)
				}
				if !rejected && it.Score >= 0 {
					t.Errorf("position %d score = %f, want negative", i, it.Score)
				}
			}
			for i := 1; i < len(res.Items); i++ {
				a, b := res.Items[i-1], res.Items[i]
				if a.Eligible == b.Eligible && a.Score < b.Score {
					t.Errorf("scores not non-increasing at %d: %f < %f", i, a.Score, b.Score)
				}
			}
		})
	}
}

func semanticFixture(t *testing.T) (*Engine, *mockEmbedder) {
	t.Helper()
	cat := &Catalog{Candidates: []Candidate{
		{ID: 10, Tags: []string{"go"}, Text: map[string]string{"description": "backend"}},
		{ID: 11, Tags: []string{"css"}, Text: map[string]string{"description": "frontend"}},
		{ID: 12, Tags: []string{"go", "css"}},
	}}
	vectors := map[string][][]float32{
		"description": {{1, 0}, {0, 1}, nil},
	}
	emb := &mockEmbedder{dim: 2, vectors: map[string][]float32{
		"go developer": {1, 0},
	}}
	profile := Profile{
		Name: "semantic",
		Scorers: []Scorer{
			&BlendScorer{
				Signal: "content",
				Parts: []Scorer{
					&SemanticScorer{Signal: "semantic", QueryField: "skills", CandidateField: "description"},
					&AttributeScorer{Signal: "attr"},
				},
				Coefficients: []float64{0.7, 0.3},
			},
			&SemanticScorer{Signal: "semantic", QueryField: "skills", CandidateField: "description"},
		},
		DefaultWeights: map[string]float64{"content": 1},
	}
	return newTestEngine(t, profile, newTestStore(t, cat, vectors, 2), emb), emb
}

func TestEngine_BlendAndQueryEmbedding(t *testing.T) {
	t.Parallel()

	engine, emb := semanticFixture(t)
	q := &Query{Tags: []string{"go"}, Text: map[string]string{"skills": "go developer"}}

	res, err := engine.Rank(context.Background(), q, 3)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	// 10: 0.7*1 + 0.3*1, 12: 0.3*0.5, 11: 0
	if got := idsOf(res.Items); !equalInts(got, []int{10, 12, 11}) {
		t.Fatalf("ids = %v, want [10 12 11]", got)
	}
	if !approxEqual(res.Items[0].Score, 1.0) || !approxEqual(res.Items[1].Score, 0.15) {
		t.Errorf("scores = %f, %f", res.Items[0].Score, res.Items[1].Score)
	}
	if emb.calls.Load() != 1 || len(emb.texts) != 1 {
		t.Errorf("embedder calls = %d texts = %v, want one call with one text", emb.calls.Load(), emb.texts)
	}
}

func TestEngine_ZeroWeightScorerNotRun(t *testing.T) {
	t.Parallel()

	cat := &Catalog{Candidates: []Candidate{{ID: 1, Tags: []string{"a"}}}}
	unused := &countingScorer{Scorer: &CollaborativeScorer{Signal: "collaborative"}}
	profile := Profile{
		Name:           "zero",
		Scorers:        []Scorer{&AttributeScorer{Signal: "attr"}, unused},
		DefaultWeights: map[string]float64{"attr": 1, "collaborative": 0},
	}
	engine := newTestEngine(t, profile, newTestStore(t, cat, nil, 0), nil)

	if _, err := engine.Rank(context.Background(), &Query{Tags: []string{"a"}}, 1); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if unused.calls.Load() != 0 {
		t.Errorf("zero-weight scorer ran %d times", unused.calls.Load())
	}
}

func TestEngine_Determinism(t *testing.T) {
	t.Parallel()

	engine, _ := semanticFixture(t)
	q := &Query{Tags: []string{"go", "css"}, Text: map[string]string{"skills": "go developer"}}

	var first []byte
	for i := 0; i < 5; i++ {
		res, err := engine.Rank(context.Background(), q, 3)
		if err != nil {
			t.Fatalf("Rank: %v", err)
		}
		data, err := json.Marshal(res)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if first == nil {
			first = data
			continue
		}
		if string(data) != string(first) {
			t.Fatalf("run %d differs:\n%s\n%s", i, data, first)
		}
	}
}

func TestEngine_OutputBounds(t *testing.T) {
	t.Parallel()

	cat := &Catalog{Candidates: []Candidate{
		{ID: 1, Tags: []string{"a"}},
		{ID: 2, Tags: []string{"a", "b"}},
		{ID: 3, Tags: []string{"b"}},
	}}
	engine := newTestEngine(t, attrProfile(), newTestStore(t, cat, nil, 0), nil)

	for _, k := range []int{1, 2, 3, 50} {
		res, err := engine.Rank(context.Background(), &Query{Tags: []string{"a"}}, k)
		if err != nil {
			t.Fatalf("Rank(k=%d): %v", k, err)
		}
		if len(res.Items) > k || len(res.Items) > len(cat.Candidates) {
			t.Errorf("k=%d returned %d items", k, len(res.Items))
		}
		for i := 1; i < len(res.Items); i++ {
			if res.Items[i].Score > res.Items[i-1].Score {
				t.Errorf("k=%d scores increase at %d", k, i)
			}
		}
	}
}

func TestEngine_Errors(t *testing.T) {
	t.Parallel()

	cat := &Catalog{Candidates: []Candidate{{ID: 1, Tags: []string{"a"}, Text: map[string]string{"description": "x"}}}}
	vectors := map[string][][]float32{"description": {{1, 0}}}
	semantic := Profile{
		Name:           "semantic",
		Scorers:        []Scorer{&SemanticScorer{Signal: "semantic", QueryField: "skills", CandidateField: "description"}},
		DefaultWeights: map[string]float64{"semantic": 1},
	}

	tests := []struct {
		name    string
		engine  func(t *testing.T) *Engine
		query   *Query
		k       int
		wantErr error
	}{
		{
			name: "no snapshot",
			engine: func(t *testing.T) *Engine {
				return newTestEngine(t, attrProfile(), NewSnapshotStore(&SnapshotBuilder{Catalog: "x"}, zerolog.Nop()), nil)
			},
			query:   &Query{Tags: []string{"a"}},
			wantErr: ErrNoSnapshot,
		},
		{
			name: "all zero weights",
			engine: func(t *testing.T) *Engine {
				return newTestEngine(t, attrProfile(), newTestStore(t, cat, nil, 0), nil)
			},
			query:   &Query{Tags: []string{"a"}, Weights: map[string]float64{"attr": 0}},
			wantErr: ErrInvalidWeights,
		},
		{
			name: "negative k",
			engine: func(t *testing.T) *Engine {
				return newTestEngine(t, attrProfile(), newTestStore(t, cat, nil, 0), nil)
			},
			query:   &Query{Tags: []string{"a"}},
			k:       -1,
			wantErr: ErrInvalidInput,
		},
		{
			name: "nil query",
			engine: func(t *testing.T) *Engine {
				return newTestEngine(t, attrProfile(), newTestStore(t, cat, nil, 0), nil)
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "provider failure",
			engine: func(t *testing.T) *Engine {
				emb := &mockEmbedder{dim: 2, err: errors.New("quota exceeded")}
				return newTestEngine(t, semantic, newTestStore(t, cat, vectors, 2), emb)
			},
			query:   &Query{Text: map[string]string{"skills": "go"}},
			wantErr: ErrProviderFailure,
		},
		{
			name: "dimension mismatch",
			engine: func(t *testing.T) *Engine {
				emb := &mockEmbedder{dim: 3}
				return newTestEngine(t, semantic, newTestStore(t, cat, vectors, 2), emb)
			},
			query:   &Query{Text: map[string]string{"skills": "go"}},
			wantErr: ErrDimensionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := tt.engine(t)
			_, err := engine.Rank(context.Background(), tt.query, tt.k)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if _, failures := engine.Stats(); failures != 1 {
				t.Errorf("failures = %d, want 1", failures)
			}
		})
	}
}

func TestEngine_EmptyQueryTextIsAbsent(t *testing.T) {
	t.Parallel()

	engine, emb := semanticFixture(t)
	res, err := engine.Rank(context.Background(), &Query{Tags: []string{"go"}}, 3)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if emb.calls.Load() != 0 {
		t.Errorf("embedder called %d times for empty text", emb.calls.Load())
	}
	// Blend falls back to the attribute part alone.
	if !approxEqual(res.Items[0].Score, 0.3) {
		t.Errorf("top score = %f, want 0.3", res.Items[0].Score)
	}
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(&SnapshotBuilder{Catalog: "x"}, zerolog.Nop())

	tests := []struct {
		name    string
		profile Profile
		loader  SnapshotLoader
	}{
		{"missing name", Profile{Scorers: []Scorer{&AttributeScorer{Signal: "a"}}}, store},
		{"no scorers", Profile{Name: "p"}, store},
		{"no loader", Profile{Name: "p", Scorers: []Scorer{&AttributeScorer{Signal: "a"}}}, nil},
		{"duplicate signals", Profile{Name: "p", Scorers: []Scorer{&AttributeScorer{Signal: "a"}, &AttributeScorer{Signal: "a"}}}, store},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewEngine(tt.profile, tt.loader, nil, nil, zerolog.Nop()); err == nil {
				t.Error("NewEngine() error = nil, want error")
			}
		})
	}
}
