// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/skillbridge/internal/catalog"
	"github.com/tomtom215/skillbridge/internal/config"
	"github.com/tomtom215/skillbridge/internal/database"
	"github.com/tomtom215/skillbridge/internal/logging"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the DuckDB catalog store",
	}
	cmd.AddCommand(newCatalogImportCmd(), newCatalogInspectCmd())
	return cmd
}

func newCatalogImportCmd() *cobra.Command {
	var from, path string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Upsert a catalog file into DuckDB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := catalog.ReadDatasetFile(from)
			if err != nil {
				return err
			}
			db, err := database.New(&config.DatabaseConfig{Path: path})
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					logging.Warn().Err(err).Msg("failed to close database")
				}
			}()

			if err := db.ImportDataset(cmd.Context(), d); err != nil {
				return err
			}
			counts, err := db.Counts(cmd.Context())
			if err != nil {
				return err
			}
			logging.Info().
				Str("from", from).
				Int("projects", len(d.Projects)).
				Int("mentors", len(d.Mentors)).
				Int("engagements", len(d.Engagements)).
				Msg("catalog imported")
			return writeJSON(cmd, counts)
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", "", "catalog file, JSON or YAML (required)")
	cmd.Flags().StringVar(&path, "duckdb", "", "DuckDB database path (required)")
	mustMarkRequired(cmd, "from", "duckdb")
	return cmd
}

func newCatalogInspectCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print row counts of the DuckDB catalog tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.New(&config.DatabaseConfig{Path: path})
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					logging.Warn().Err(err).Msg("failed to close database")
				}
			}()

			counts, err := db.Counts(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, counts)
		},
	}
	cmd.Flags().StringVar(&path, "duckdb", "", "DuckDB database path (required)")
	mustMarkRequired(cmd, "duckdb")
	return cmd
}
