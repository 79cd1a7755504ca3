// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

import (
	"context"
	"fmt"
)

// ScoreInput is everything a scorer may read during one ranking call.
// None of it may be modified.
type ScoreInput struct {
	Query    *Query
	Snapshot *Snapshot

	// QueryVectors maps a query text field to its embedding. Only fields
	// requested through TextScorer.QueryFields and with non-empty text are
	// present.
	QueryVectors map[string][]float32
}

// Scorer produces one signal over all snapshot candidates.
type Scorer interface {
	Name() string
	Score(ctx context.Context, in *ScoreInput) (Signal, error)
}

// TextScorer is a Scorer that needs query text embeddings. The engine
// embeds the requested fields once per call before scoring starts.
type TextScorer interface {
	Scorer
	QueryFields() []string
}

// SemanticScorer compares the embedding of a query text field against the
// snapshot embeddings of a candidate text field.
type SemanticScorer struct {
	Signal         string
	QueryField     string
	CandidateField string
}

func (s *SemanticScorer) Name() string          { return s.Signal }
func (s *SemanticScorer) QueryFields() []string { return []string{s.QueryField} }

// Score returns an absent signal when the query has no text for the field.
func (s *SemanticScorer) Score(ctx context.Context, in *ScoreInput) (Signal, error) {
	sig := Signal{Name: s.Signal}
	qv, ok := in.QueryVectors[s.QueryField]
	if !ok {
		return sig, nil
	}

	cands, ok := in.Snapshot.Vectors[s.CandidateField]
	if !ok {
		return sig, fmt.Errorf("snapshot has no embeddings for field %q", s.CandidateField)
	}

	scores, err := similarityScores(ctx, qv, cands)
	if err != nil {
		return sig, fmt.Errorf("%s: %w", s.Signal, err)
	}
	sig.Scores = scores
	sig.Present = true
	return sig, nil
}

// AttributeScorer scores tag overlap between the query and each candidate.
type AttributeScorer struct {
	Signal string
}

func (s *AttributeScorer) Name() string { return s.Signal }

func (s *AttributeScorer) Score(_ context.Context, in *ScoreInput) (Signal, error) {
	cands := in.Snapshot.Candidates
	scores := make([]float64, len(cands))
	for i := range cands {
		scores[i] = AttributeMatch(in.Query.Tags, cands[i].Tags)
	}
	return Signal{Name: s.Signal, Scores: scores, Present: true}, nil
}

// CollaborativeScorer scores co-occurrence with other actors' histories.
type CollaborativeScorer struct {
	Signal string
}

func (s *CollaborativeScorer) Name() string { return s.Signal }

func (s *CollaborativeScorer) Score(ctx context.Context, in *ScoreInput) (Signal, error) {
	sig := Signal{Name: s.Signal}
	if err := ctx.Err(); err != nil {
		return sig, err
	}

	byID, present := CollaborativeScores(in.Query.History, in.Snapshot.Histories, in.Query.ActorID)
	if !present {
		return sig, nil
	}

	cands := in.Snapshot.Candidates
	sig.Scores = make([]float64, len(cands))
	for i := range cands {
		sig.Scores[i] = byID[cands[i].ID]
	}
	sig.Present = true
	return sig, nil
}

// BlendScorer is a fixed linear blend of other scorers, e.g. a content
// score made of 0.7 semantic and 0.3 tag overlap. Absent parts are
// skipped. The blend is absent only if every part is absent.
type BlendScorer struct {
	Signal       string
	Parts        []Scorer
	Coefficients []float64
}

func (s *BlendScorer) Name() string { return s.Signal }

// QueryFields is the union of the parts' query fields.
func (s *BlendScorer) QueryFields() []string {
	var fields []string
	for _, p := range s.Parts {
		if ts, ok := p.(TextScorer); ok {
			fields = append(fields, ts.QueryFields()...)
		}
	}
	return fields
}

func (s *BlendScorer) Score(ctx context.Context, in *ScoreInput) (Signal, error) {
	sig := Signal{Name: s.Signal}
	if len(s.Parts) != len(s.Coefficients) {
		return sig, fmt.Errorf("blend %s: %d parts but %d coefficients", s.Signal, len(s.Parts), len(s.Coefficients))
	}

	n := len(in.Snapshot.Candidates)
	blended := make([]float64, n)
	for i, part := range s.Parts {
		ps, err := part.Score(ctx, in)
		if err != nil {
			return sig, err
		}
		if !ps.Present {
			continue
		}
		sig.Present = true
		for j := 0; j < n; j++ {
			blended[j] += s.Coefficients[i] * ps.Scores[j]
		}
	}
	if sig.Present {
		sig.Scores = blended
	}
	return sig, nil
}

// FuncScorer scores each candidate with Fn. When Applies is set and returns
// false for the query, the signal is absent.
type FuncScorer struct {
	Signal  string
	Fn      func(q *Query, c *Candidate) float64
	Applies func(q *Query) bool
}

func (s *FuncScorer) Name() string { return s.Signal }

func (s *FuncScorer) Score(ctx context.Context, in *ScoreInput) (Signal, error) {
	sig := Signal{Name: s.Signal}
	if s.Applies != nil && !s.Applies(in.Query) {
		return sig, nil
	}

	cands := in.Snapshot.Candidates
	sig.Scores = make([]float64, len(cands))
	for i := range cands {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Signal{Name: s.Signal}, err
			}
		}
		sig.Scores[i] = s.Fn(in.Query, &cands[i])
	}
	sig.Present = true
	return sig, nil
}
