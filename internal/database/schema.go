// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package database

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY,
		title VARCHAR NOT NULL,
		description VARCHAR NOT NULL DEFAULT '',
		skills VARCHAR[] NOT NULL,
		category VARCHAR NOT NULL DEFAULT '',
		budget DOUBLE NOT NULL DEFAULT 0,
		employer_id INTEGER NOT NULL DEFAULT 0,
		avg_rating DOUBLE NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS mentors (
		id INTEGER PRIMARY KEY,
		name VARCHAR NOT NULL,
		skills VARCHAR[] NOT NULL,
		industry VARCHAR NOT NULL DEFAULT '',
		experience_years INTEGER NOT NULL DEFAULT 0,
		hourly_rate DOUBLE NOT NULL DEFAULT 0,
		availability_hours DOUBLE NOT NULL DEFAULT 0,
		rating DOUBLE NOT NULL DEFAULT 0,
		mentees_count INTEGER NOT NULL DEFAULT 0,
		bio VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS engagements (
		actor_id INTEGER NOT NULL,
		project_id INTEGER NOT NULL,
		PRIMARY KEY (actor_id, project_id)
	)`,
}

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}
