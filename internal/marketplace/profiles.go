// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package marketplace

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/tomtom215/skillbridge/internal/catalog"
	"github.com/tomtom215/skillbridge/internal/recommend"
)

// Project signals.
const (
	SignalSemantic      = "semantic"
	SignalAttribute     = "attr"
	SignalContent       = "content"
	SignalCollaborative = "collaborative"
	SignalCategory      = "category"
)

// Mentor signals.
const (
	SignalSkills     = "skills"
	SignalIndustry   = "industry"
	SignalGoalsBio   = "goals_bio"
	SignalExperience = "experience"
	SignalRating     = "rating"
)

// Query text fields.
const (
	QuerySkills   = "skills"
	QueryIndustry = "industry"
	QueryGoals    = "goals"
)

// Explanation texts.
const (
	ReasonSkillsPrefix   = "Skills match"
	ReasonIndustryPrefix = "Same industry"
	ReasonProjectDefault = "Similar to projects you've shown interest in"
	ReasonMentorDefault  = "Similar to mentors you have engaged with"
)

// ProjectOptions tune the project profile.
type ProjectOptions struct {
	DefaultWeights map[string]float64
	DefaultK       int

	// SemanticBlend and AttributeBlend are the content blend coefficients.
	SemanticBlend  float64
	AttributeBlend float64
}

// DefaultProjectOptions returns the stock project settings.
func DefaultProjectOptions() ProjectOptions {
	return ProjectOptions{
		DefaultWeights: map[string]float64{SignalContent: 0.6, SignalCollaborative: 0.4},
		DefaultK:       10,
		SemanticBlend:  0.7,
		AttributeBlend: 0.3,
	}
}

// MentorOptions tune the mentor profile.
type MentorOptions struct {
	DefaultWeights map[string]float64
	DefaultK       int

	// Defaults for requests that omit budget_range or availability.
	BudgetMin         float64
	BudgetMax         float64
	AvailabilityHours float64

	// HighRating is the rating from which "Highly rated" is stated.
	HighRating float64
}

// DefaultMentorOptions returns the stock mentor settings.
func DefaultMentorOptions() MentorOptions {
	return MentorOptions{
		DefaultWeights: map[string]float64{
			SignalSkills:     0.4,
			SignalIndustry:   0.2,
			SignalGoalsBio:   0.2,
			SignalExperience: 0.1,
			SignalRating:     0.1,
		},
		DefaultK:          5,
		BudgetMin:         1000,
		BudgetMax:         3000,
		AvailabilityHours: 5,
		HighRating:        4.5,
	}
}

// ProjectProfile builds the ranking profile for project recommendations.
//
//nolint:gocritic // options are copied once at construction
func ProjectProfile(opts ProjectOptions) recommend.Profile {
	semantic := &recommend.SemanticScorer{
		Signal:         SignalSemantic,
		QueryField:     QuerySkills,
		CandidateField: catalog.FieldDescription,
	}
	attr := &recommend.AttributeScorer{Signal: SignalAttribute}

	return recommend.Profile{
		Name: catalog.Projects,
		Scorers: []recommend.Scorer{
			&recommend.BlendScorer{
				Signal:       SignalContent,
				Parts:        []recommend.Scorer{semantic, attr},
				Coefficients: []float64{opts.SemanticBlend, opts.AttributeBlend},
			},
			&recommend.CollaborativeScorer{Signal: SignalCollaborative},
			semantic,
			attr,
			&recommend.FuncScorer{
				Signal:  SignalCategory,
				Fn:      categoryScore,
				Applies: func(q *recommend.Query) bool { return len(q.Categories) > 0 },
			},
		},
		DefaultWeights: opts.DefaultWeights,
		DefaultK:       opts.DefaultK,
		Validate:       validateTags("skills"),
		Predicates: func(q *recommend.Query) ([]recommend.Predicate, error) {
			if len(q.Constraints.ExcludeIDs) == 0 {
				return nil, nil
			}
			return []recommend.Predicate{recommend.ExcludeIDs(q.Constraints.ExcludeIDs)}, nil
		},
		Explainer: &recommend.Explainer{
			Rules:    []recommend.ReasonRule{recommend.TagOverlapRule(ReasonSkillsPrefix, recommend.DefaultOverlapLimit)},
			Fallback: ReasonProjectDefault,
		},
		ExcludeHistory: true,
	}
}

// MentorProfile builds the ranking profile for mentor matching. Budget and
// availability constraints must be resolved on the query before ranking.
//
//nolint:gocritic // options are copied once at construction
func MentorProfile(opts MentorOptions) recommend.Profile {
	return recommend.Profile{
		Name: catalog.Mentors,
		Scorers: []recommend.Scorer{
			&recommend.SemanticScorer{Signal: SignalSkills, QueryField: QuerySkills, CandidateField: catalog.FieldSkills},
			&recommend.SemanticScorer{Signal: SignalIndustry, QueryField: QueryIndustry, CandidateField: catalog.FieldIndustry},
			&recommend.SemanticScorer{Signal: SignalGoalsBio, QueryField: QueryGoals, CandidateField: catalog.FieldBio},
			&recommend.FuncScorer{
				Signal: SignalExperience,
				Fn: func(q *recommend.Query, c *recommend.Candidate) float64 {
					mentor, _ := c.Attribute(catalog.AttrExperienceYears)
					return ExperienceScore(q.Attributes[catalog.AttrExperienceYears], mentor)
				},
			},
			&recommend.FuncScorer{
				Signal: SignalRating,
				Fn: func(_ *recommend.Query, c *recommend.Candidate) float64 {
					r, ok := c.Attribute(catalog.AttrRating)
					if !ok {
						return 0
					}
					return RatingScore(r)
				},
			},
		},
		DefaultWeights: opts.DefaultWeights,
		DefaultK:       opts.DefaultK,
		Validate:       validateTags("skills_to_learn"),
		Predicates:     mentorPredicates,
		Explainer: &recommend.Explainer{
			Rules: []recommend.ReasonRule{
				recommend.TagOverlapRule(ReasonSkillsPrefix, recommend.DefaultOverlapLimit),
				recommend.CategoryRule(ReasonIndustryPrefix),
				recommend.AttributeFactRule(catalog.AttrExperienceYears, func(v float64) string {
					return fmt.Sprintf("%d years of experience", int(v))
				}),
				recommend.ThresholdRule(catalog.AttrRating, opts.HighRating, func(v float64) string {
					return fmt.Sprintf("Highly rated: %.1f/5.0", v)
				}),
			},
			Fallback: ReasonMentorDefault,
		},
	}
}

// ExperienceScore prefers mentors 3 to 10 years ahead of the mentee.
func ExperienceScore(mentee, mentor float64) float64 {
	if mentor <= mentee {
		return 0.2
	}
	diff := mentor - mentee
	switch {
	case diff > 10:
		return 0.5
	case diff >= 3:
		return 1 - (diff-3)/7
	default:
		return 1 - (3-diff)/3
	}
}

// RatingScore maps a 3.5-5.0 rating onto 0-1. Lower ratings go negative.
func RatingScore(rating float64) float64 {
	return (rating - 3.5) / 1.5
}

func categoryScore(q *recommend.Query, c *recommend.Candidate) float64 {
	if c.Category != "" && slices.Contains(q.Categories, c.Category) {
		return 1
	}
	return 0
}

func mentorPredicates(q *recommend.Query) ([]recommend.Predicate, error) {
	var preds []recommend.Predicate
	con := q.Constraints
	if con.BudgetMin != nil || con.BudgetMax != nil {
		lo, hi := 0.0, math.Inf(1)
		if con.BudgetMin != nil {
			lo = *con.BudgetMin
		}
		if con.BudgetMax != nil {
			hi = *con.BudgetMax
		}
		if lo > hi {
			return nil, recommend.NewInputError("budget_range", "min %g is greater than max %g", lo, hi)
		}
		budget, err := recommend.NewRangePredicate(catalog.AttrHourlyRate, lo, hi)
		if err != nil {
			return nil, err
		}
		preds = append(preds, budget)
	}
	if con.MinAvailHours != nil {
		if *con.MinAvailHours < 0 {
			return nil, recommend.NewInputError("availability.hours_per_week", "must not be negative")
		}
		preds = append(preds, recommend.MinimumPredicate{Attribute: catalog.AttrAvailabilityHours, Min: *con.MinAvailHours})
	}
	if len(con.ExcludeIDs) > 0 {
		preds = append(preds, recommend.ExcludeIDs(con.ExcludeIDs))
	}
	return preds, nil
}

// validateTags rejects queries without at least one non-blank tag.
func validateTags(field string) func(q *recommend.Query) error {
	return func(q *recommend.Query) error {
		if len(q.Tags) == 0 {
			return recommend.NewInputError(field, "at least one skill is required")
		}
		for i, t := range q.Tags {
			if strings.TrimSpace(t) == "" {
				return recommend.NewInputError(field, "entry %d is blank", i)
			}
		}
		return nil
	}
}
