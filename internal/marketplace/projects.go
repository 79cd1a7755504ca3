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

// ProjectQuery is a freelancer asking for project recommendations.
type ProjectQuery struct {
	UserID              int                `json:"user_id" validate:"gte=0"`
	Skills              []string           `json:"skills" validate:"required,min=1,max=100,dive,nonblank"`
	PreferredCategories []string           `json:"preferred_categories,omitempty" validate:"omitempty,max=50,dive,nonblank"`
	ProjectHistory      []int              `json:"project_history,omitempty" validate:"omitempty,max=10000"`
	Weights             map[string]float64 `json:"weights,omitempty"`
	K                   int                `json:"k,omitempty" validate:"gte=0"`
}

// ProjectResult is one recommended project with its score breakdown.
type ProjectResult struct {
	ProjectID int                `json:"project_id"`
	Title     string             `json:"title"`
	Score     float64            `json:"score"`
	Signals   map[string]float64 `json:"signals"`
	Eligible  bool               `json:"eligible"`
	Reasons   []string           `json:"reasons"`
}

// ProjectRecommendation is the recommender response. The three parallel
// lists share one order.
type ProjectRecommendation struct {
	ProjectIDs   []int           `json:"project_ids"`
	Scores       []float64       `json:"scores"`
	MatchReasons []string        `json:"match_reasons"`
	Results      []ProjectResult `json:"results"`
	Meta         RankMeta        `json:"meta"`
}

// ProjectRecommender ranks projects for freelancers.
type ProjectRecommender struct {
	engine   *recommend.Engine
	notifier Notifier
}

// NewProjectRecommender wraps an engine built from ProjectProfile.
func NewProjectRecommender(engine *recommend.Engine, notifier Notifier) *ProjectRecommender {
	return &ProjectRecommender{engine: engine, notifier: notifier}
}

// Engine returns the underlying ranking engine.
func (r *ProjectRecommender) Engine() *recommend.Engine {
	return r.engine
}

// Query converts a request into an engine query.
func (r *ProjectRecommender) Query(pq *ProjectQuery) *recommend.Query {
	return &recommend.Query{
		ActorID:    pq.UserID,
		Tags:       pq.Skills,
		Categories: pq.PreferredCategories,
		Text:       map[string]string{QuerySkills: joinText(pq.Skills)},
		History:    pq.ProjectHistory,
		Weights:    copyWeights(pq.Weights),
	}
}

// Recommend returns up to pq.K projects, the profile default when zero.
func (r *ProjectRecommender) Recommend(ctx context.Context, pq *ProjectQuery) (*ProjectRecommendation, error) {
	if pq == nil {
		return nil, recommend.NewInputError("body", "is required")
	}
	res, err := r.engine.Rank(ctx, r.Query(pq), pq.K)
	if err != nil {
		return nil, err
	}

	out := &ProjectRecommendation{
		ProjectIDs:   make([]int, len(res.Items)),
		Scores:       make([]float64, len(res.Items)),
		MatchReasons: make([]string, len(res.Items)),
		Results:      make([]ProjectResult, len(res.Items)),
		Meta:         metaFrom(res),
	}
	for i := range res.Items {
		item := &res.Items[i]
		out.ProjectIDs[i] = item.Candidate.ID
		out.Scores[i] = item.Score
		out.MatchReasons[i] = strings.Join(item.Reasons, ", ")
		out.Results[i] = ProjectResult{
			ProjectID: item.Candidate.ID,
			Title:     item.Candidate.Name,
			Score:     item.Score,
			Signals:   item.Signals,
			Eligible:  item.Eligible,
			Reasons:   item.Reasons,
		}
	}

	if r.notifier != nil {
		r.notifier.RankingServed(ctx, res.Profile, pq.UserID, res)
	}
	return out, nil
}
