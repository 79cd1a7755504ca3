// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package marketplace

import (
	"context"
	"strings"

	"github.com/tomtom215/skillbridge/internal/catalog"
	"github.com/tomtom215/skillbridge/internal/models"
	"github.com/tomtom215/skillbridge/internal/recommend"
)

// DefaultMentorshipType is assumed when a mentee does not state one.
const DefaultMentorshipType = "one-on-one"

// BudgetRange bounds the mentor hourly rate, inclusive.
type BudgetRange struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gte=0"`
}

// Availability is the weekly time a mentee needs.
type Availability struct {
	HoursPerWeek float64 `json:"hours_per_week" validate:"gte=0"`
}

// MenteeProfile is a mentee asking for mentor matches.
type MenteeProfile struct {
	UserID                  int                `json:"user_id" validate:"gte=0"`
	SkillsToLearn           []string           `json:"skills_to_learn" validate:"required,min=1,max=100,dive,nonblank"`
	Industry                string             `json:"industry" validate:"max=200"`
	ExperienceYears         int                `json:"experience_years" validate:"gte=0,lte=80"`
	Goals                   []string           `json:"goals" validate:"omitempty,max=50"`
	PreferredMentorshipType string             `json:"preferred_mentorship_type,omitempty" validate:"max=50"`
	BudgetRange             *BudgetRange       `json:"budget_range,omitempty"`
	Availability            *Availability      `json:"availability,omitempty"`
	Weights                 map[string]float64 `json:"weights,omitempty"`
	K                       int                `json:"k,omitempty" validate:"gte=0"`
}

// MatchedMentor is a mentor record with its match score.
type MatchedMentor struct {
	models.Mentor
	MatchScore float64            `json:"match_score"`
	Signals    map[string]float64 `json:"signals"`
	Eligible   bool               `json:"eligible"`
}

// MentorMatch is the matcher response. Mentors, MatchScores and
// MatchReasons share one order.
type MentorMatch struct {
	MenteeID       int             `json:"mentee_id"`
	MentorshipType string          `json:"mentorship_type"`
	Mentors        []MatchedMentor `json:"mentors"`
	MatchScores    []float64       `json:"match_scores"`
	MatchReasons   []string        `json:"match_reasons"`
	Meta           RankMeta        `json:"meta"`
}

// MentorMatcher ranks mentors for mentees.
type MentorMatcher struct {
	engine   *recommend.Engine
	opts     MentorOptions
	notifier Notifier
}

// NewMentorMatcher wraps an engine built from MentorProfile. opts supplies
// the budget and availability defaults.
//
//nolint:gocritic // options are copied once at construction
func NewMentorMatcher(engine *recommend.Engine, opts MentorOptions, notifier Notifier) *MentorMatcher {
	return &MentorMatcher{engine: engine, opts: opts, notifier: notifier}
}

// Engine returns the underlying ranking engine.
func (m *MentorMatcher) Engine() *recommend.Engine {
	return m.engine
}

// Query converts a request into an engine query, filling in the default
// budget and availability.
func (m *MentorMatcher) Query(mp *MenteeProfile) *recommend.Query {
	budget := BudgetRange{Min: m.opts.BudgetMin, Max: m.opts.BudgetMax}
	if mp.BudgetRange != nil {
		budget = *mp.BudgetRange
	}
	hours := m.opts.AvailabilityHours
	if mp.Availability != nil {
		hours = mp.Availability.HoursPerWeek
	}

	return &recommend.Query{
		ActorID:  mp.UserID,
		Tags:     mp.SkillsToLearn,
		Category: strings.TrimSpace(mp.Industry),
		Text: map[string]string{
			QuerySkills:   joinText(mp.SkillsToLearn),
			QueryIndustry: strings.TrimSpace(mp.Industry),
			QueryGoals:    joinText(mp.Goals),
		},
		Attributes: map[string]float64{catalog.AttrExperienceYears: float64(mp.ExperienceYears)},
		Weights:    copyWeights(mp.Weights),
		Constraints: recommend.Constraints{
			BudgetMin:     &budget.Min,
			BudgetMax:     &budget.Max,
			MinAvailHours: &hours,
		},
	}
}

// Match returns up to mp.K mentors, the profile default when zero.
func (m *MentorMatcher) Match(ctx context.Context, mp *MenteeProfile) (*MentorMatch, error) {
	if mp == nil {
		return nil, recommend.NewInputError("body", "is required")
	}
	res, err := m.engine.Rank(ctx, m.Query(mp), mp.K)
	if err != nil {
		return nil, err
	}

	mentorshipType := strings.TrimSpace(mp.PreferredMentorshipType)
	if mentorshipType == "" {
		mentorshipType = DefaultMentorshipType
	}

	out := &MentorMatch{
		MenteeID:       mp.UserID,
		MentorshipType: mentorshipType,
		Mentors:        make([]MatchedMentor, len(res.Items)),
		MatchScores:    make([]float64, len(res.Items)),
		MatchReasons:   make([]string, len(res.Items)),
		Meta:           metaFrom(res),
	}
	for i := range res.Items {
		item := &res.Items[i]
		out.Mentors[i] = MatchedMentor{
			Mentor:     catalog.MentorRecord(item.Candidate),
			MatchScore: item.Score,
			Signals:    item.Signals,
			Eligible:   item.Eligible,
		}
		out.MatchScores[i] = item.Score
		out.MatchReasons[i] = strings.Join(item.Reasons, ", ")
	}

	if m.notifier != nil {
		m.notifier.RankingServed(ctx, res.Profile, mp.UserID, res)
	}
	return out, nil
}
