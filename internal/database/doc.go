// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

// Package database stores marketplace catalogs in DuckDB.
//
// # Overview
//
// The ranking core never writes catalogs. This package is the external
// catalog store: the CLI imports datasets into it, and the server reads
// them back through the catalog package on every snapshot refresh.
//
// # Schema
//
//   - projects: one row per project, skills held as VARCHAR[]
//   - mentors: one row per mentor, skills held as VARCHAR[]
//   - engagements: (actor_id, project_id) pairs, the collaborative history
//
// # Usage
//
//	db, err := database.New(&config.DatabaseConfig{Path: "catalog.duckdb"})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	dataset, err := db.LoadDataset(ctx)
//
// The path ":memory:" opens a private in-memory database, which is what
// the tests use.
package database
