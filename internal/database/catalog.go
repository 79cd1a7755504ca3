// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tomtom215/skillbridge/internal/models"
)

// listSep joins skill lists for binding. Unit separator never appears in
// skill names.
const listSep = "\x1f"

// Counts reports the number of rows per catalog table.
type Counts struct {
	Projects    int `json:"projects"`
	Mentors     int `json:"mentors"`
	Engagements int `json:"engagements"`
}

// ImportDataset upserts every record of d in one transaction.
func (db *DB) ImportDataset(ctx context.Context, d *models.Dataset) error {
	if db.conn == nil {
		return ErrClosed
	}
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	if err := insertProjects(ctx, tx, d.Projects); err != nil {
		return err
	}
	if err := insertMentors(ctx, tx, d.Mentors); err != nil {
		return err
	}
	if err := insertEngagements(ctx, tx, d.Engagements); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func insertProjects(ctx context.Context, tx *sql.Tx, projects []models.Project) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO projects
		(id, title, description, skills, category, budget, employer_id, avg_rating)
		VALUES (?, ?, ?, string_split(?, ?), ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare project insert: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range projects {
		p := &projects[i]
		if _, err := stmt.ExecContext(ctx, p.ID, p.Title, p.Description,
			strings.Join(p.SkillsRequired, listSep), listSep,
			p.Category, p.Budget, p.EmployerID, p.AvgRating); err != nil {
			return fmt.Errorf("insert project %d: %w", p.ID, err)
		}
	}
	return nil
}

func insertMentors(ctx context.Context, tx *sql.Tx, mentors []models.Mentor) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO mentors
		(id, name, skills, industry, experience_years, hourly_rate, availability_hours, rating, mentees_count, bio)
		VALUES (?, ?, string_split(?, ?), ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare mentor insert: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range mentors {
		m := &mentors[i]
		if _, err := stmt.ExecContext(ctx, m.ID, m.Name,
			strings.Join(m.Skills, listSep), listSep,
			m.Industry, m.ExperienceYears, m.HourlyRate, m.AvailabilityHoursPerWeek,
			m.Rating, m.MenteesCount, m.Bio); err != nil {
			return fmt.Errorf("insert mentor %d: %w", m.ID, err)
		}
	}
	return nil
}

func insertEngagements(ctx context.Context, tx *sql.Tx, engagements []models.Engagement) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO engagements (actor_id, project_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare engagement insert: %w", err)
	}
	defer closeQuietly(stmt)

	for _, e := range engagements {
		if _, err := stmt.ExecContext(ctx, e.ActorID, e.ProjectID); err != nil {
			return fmt.Errorf("insert engagement %d/%d: %w", e.ActorID, e.ProjectID, err)
		}
	}
	return nil
}

// LoadDataset reads every table ordered by id, so snapshots built from the
// same database have the same catalog order.
func (db *DB) LoadDataset(ctx context.Context) (*models.Dataset, error) {
	projects, err := db.LoadProjects(ctx)
	if err != nil {
		return nil, err
	}
	mentors, err := db.LoadMentors(ctx)
	if err != nil {
		return nil, err
	}
	engagements, err := db.LoadEngagements(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Dataset{Projects: projects, Mentors: mentors, Engagements: engagements}, nil
}

// LoadProjects returns all projects ordered by id.
func (db *DB) LoadProjects(ctx context.Context) ([]models.Project, error) {
	if db.conn == nil {
		return nil, ErrClosed
	}
	rows, err := db.conn.QueryContext(ctx, `SELECT id, title, description,
		COALESCE(array_to_string(skills, '`+listSep+`'), ''),
		category, budget, employer_id, avg_rating
		FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.Project
	for rows.Next() {
		var p models.Project
		var skills string
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &skills,
			&p.Category, &p.Budget, &p.EmployerID, &p.AvgRating); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.SkillsRequired = splitList(skills)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}

// LoadMentors returns all mentors ordered by id.
func (db *DB) LoadMentors(ctx context.Context) ([]models.Mentor, error) {
	if db.conn == nil {
		return nil, ErrClosed
	}
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name,
		COALESCE(array_to_string(skills, '`+listSep+`'), ''),
		industry, experience_years, hourly_rate, availability_hours, rating, mentees_count, bio
		FROM mentors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query mentors: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.Mentor
	for rows.Next() {
		var m models.Mentor
		var skills string
		if err := rows.Scan(&m.ID, &m.Name, &skills, &m.Industry, &m.ExperienceYears,
			&m.HourlyRate, &m.AvailabilityHoursPerWeek, &m.Rating, &m.MenteesCount, &m.Bio); err != nil {
			return nil, fmt.Errorf("scan mentor: %w", err)
		}
		m.Skills = splitList(skills)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mentors: %w", err)
	}
	return out, nil
}

// LoadEngagements returns all engagements ordered by actor then project.
func (db *DB) LoadEngagements(ctx context.Context) ([]models.Engagement, error) {
	if db.conn == nil {
		return nil, ErrClosed
	}
	rows, err := db.conn.QueryContext(ctx, `SELECT actor_id, project_id FROM engagements ORDER BY actor_id, project_id`)
	if err != nil {
		return nil, fmt.Errorf("query engagements: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.Engagement
	for rows.Next() {
		var e models.Engagement
		if err := rows.Scan(&e.ActorID, &e.ProjectID); err != nil {
			return nil, fmt.Errorf("scan engagement: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate engagements: %w", err)
	}
	return out, nil
}

// Counts returns row counts per table.
func (db *DB) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	if db.conn == nil {
		return c, ErrClosed
	}
	err := db.conn.QueryRowContext(ctx, `SELECT
		(SELECT count(*) FROM projects),
		(SELECT count(*) FROM mentors),
		(SELECT count(*) FROM engagements)`).Scan(&c.Projects, &c.Mentors, &c.Engagements)
	if err != nil {
		return c, fmt.Errorf("count catalog rows: %w", err)
	}
	return c, nil
}

// splitList reverses the join used on insert. string_split of an empty
// string yields one empty element, which is dropped here.
func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, listSep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
