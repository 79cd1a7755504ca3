// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package catalog

import (
	"strings"

	"github.com/tomtom215/skillbridge/internal/models"
	"github.com/tomtom215/skillbridge/internal/recommend"
)

// Catalog names.
const (
	Projects = "projects"
	Mentors  = "mentors"
)

// Candidate text fields.
const (
	FieldDescription = "description"
	FieldSkills      = "skills"
	FieldIndustry    = "industry"
	FieldBio         = "bio"
)

// Candidate attributes.
const (
	AttrBudget            = "budget"
	AttrAvgRating         = "avg_rating"
	AttrEmployerID        = "employer_id"
	AttrHourlyRate        = "hourly_rate"
	AttrAvailabilityHours = "availability_hours"
	AttrRating            = "rating"
	AttrExperienceYears   = "experience_years"
	AttrMenteesCount      = "mentees_count"
)

// ProjectFields are the project text fields embedded into snapshots.
var ProjectFields = []string{FieldDescription}

// MentorFields are the mentor text fields embedded into snapshots.
var MentorFields = []string{FieldSkills, FieldIndustry, FieldBio}

// ProjectCandidate maps a project onto a ranking candidate.
func ProjectCandidate(p *models.Project) recommend.Candidate {
	return recommend.Candidate{
		ID:       p.ID,
		Name:     p.Title,
		Tags:     cloneTags(p.SkillsRequired),
		Category: p.Category,
		Text: map[string]string{
			FieldDescription: p.Description,
		},
		Attributes: map[string]float64{
			AttrBudget:     p.Budget,
			AttrAvgRating:  p.AvgRating,
			AttrEmployerID: float64(p.EmployerID),
		},
	}
}

// MentorCandidate maps a mentor onto a ranking candidate. The skills text
// is the skill list joined by spaces.
func MentorCandidate(m *models.Mentor) recommend.Candidate {
	return recommend.Candidate{
		ID:       m.ID,
		Name:     m.Name,
		Tags:     cloneTags(m.Skills),
		Category: m.Industry,
		Text: map[string]string{
			FieldSkills:   strings.Join(m.Skills, " "),
			FieldIndustry: m.Industry,
			FieldBio:      m.Bio,
		},
		Attributes: map[string]float64{
			AttrHourlyRate:        m.HourlyRate,
			AttrAvailabilityHours: m.AvailabilityHoursPerWeek,
			AttrRating:            m.Rating,
			AttrExperienceYears:   float64(m.ExperienceYears),
			AttrMenteesCount:      float64(m.MenteesCount),
		},
	}
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// MentorRecord rebuilds the mentor record a candidate was made from.
func MentorRecord(c *recommend.Candidate) models.Mentor {
	attr := func(name string) float64 {
		v, _ := c.Attribute(name)
		return v
	}
	return models.Mentor{
		ID:                       c.ID,
		Name:                     c.Name,
		Skills:                   cloneTags(c.Tags),
		Industry:                 c.Category,
		ExperienceYears:          int(attr(AttrExperienceYears)),
		HourlyRate:               attr(AttrHourlyRate),
		AvailabilityHoursPerWeek: attr(AttrAvailabilityHours),
		Rating:                   attr(AttrRating),
		MenteesCount:             int(attr(AttrMenteesCount)),
		Bio:                      c.TextField(FieldBio),
	}
}
