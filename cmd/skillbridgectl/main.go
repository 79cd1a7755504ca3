// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

// Package main is skillbridgectl, the offline companion to the server.
//
// It ranks against a catalog file without a running server, scores
// activity records and manages the DuckDB catalog store:
//
//	skillbridgectl rank projects --catalog data/catalog.json --query query.json --k 5
//	skillbridgectl rank mentors --catalog data/catalog.json --query mentee.json
//	skillbridgectl fraud score --input activity.json
//	skillbridgectl catalog import --from data/catalog.json --duckdb /data/skillbridge.duckdb
//	skillbridgectl catalog inspect --duckdb /data/skillbridge.duckdb
//
// Results are written to stdout as JSON; logs go to stderr.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() //nolint:errcheck // .env is optional

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
