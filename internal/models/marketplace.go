// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package models

// Project is a freelance project open for bids.
type Project struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	SkillsRequired []string `json:"skills_required"`

	// Category is the project's market segment (web, data, design).
	Category string `json:"category,omitempty"`

	Budget     float64 `json:"budget"`
	EmployerID int     `json:"employer_id"`

	// AvgRating is the employer's average rating, 0-5.
	AvgRating float64 `json:"avg_rating"`
}

// Mentor offers paid mentorship sessions.
type Mentor struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Skills          []string `json:"skills"`
	Industry        string   `json:"industry"`
	ExperienceYears int      `json:"experience_years"`

	// HourlyRate is in the marketplace currency (INR).
	HourlyRate float64 `json:"hourly_rate"`

	AvailabilityHoursPerWeek float64 `json:"availability_hours_per_week"`
	Rating                   float64 `json:"rating"`
	MenteesCount             int     `json:"mentees_count"`
	Bio                      string  `json:"bio"`
}

// Engagement records that an actor bid on, saved or completed a project.
type Engagement struct {
	ActorID   int `json:"actor_id"`
	ProjectID int `json:"project_id"`
}

// Dataset is the full content of a catalog file or database.
type Dataset struct {
	Projects    []Project    `json:"projects"`
	Mentors     []Mentor     `json:"mentors"`
	Engagements []Engagement `json:"engagements"`
}

// Histories groups engagements by actor, keeping first-seen order and
// dropping repeats.
func (d *Dataset) Histories() map[int][]int {
	histories := make(map[int][]int)
	seen := make(map[Engagement]struct{}, len(d.Engagements))
	for _, e := range d.Engagements {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		histories[e.ActorID] = append(histories[e.ActorID], e.ProjectID)
	}
	return histories
}
