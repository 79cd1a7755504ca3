// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/skillbridge/internal/catalog"
	"github.com/tomtom215/skillbridge/internal/embedding"
	"github.com/tomtom215/skillbridge/internal/logging"
	"github.com/tomtom215/skillbridge/internal/marketplace"
	"github.com/tomtom215/skillbridge/internal/recommend"
)

type rankOptions struct {
	catalog   string
	query     string
	k         int
	dimension int
}

func newRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank a catalog file offline with the hashing embedder",
	}
	cmd.AddCommand(newRankProjectsCmd(), newRankMentorsCmd())
	return cmd
}

func (o *rankOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.catalog, "catalog", "c", "", "catalog file, JSON or YAML (required)")
	cmd.Flags().StringVarP(&o.query, "query", "q", "", "query JSON file, - for stdin (required)")
	cmd.Flags().IntVar(&o.k, "k", 0, "number of results; 0 uses the profile default")
	cmd.Flags().IntVar(&o.dimension, "dimension", 256, "hashing embedding dimension")
	mustMarkRequired(cmd, "catalog", "query")
}

// engine loads one catalog from the file and builds its ranking engine.
func (o *rankOptions) engine(cmd *cobra.Command, name string, profile recommend.Profile) (*recommend.Engine, error) {
	if o.dimension < 1 {
		return nil, fmt.Errorf("dimension must be positive, got %d", o.dimension)
	}
	logger := logging.WithComponent("rank")
	emb := embedding.NewHashingProvider(o.dimension)
	ds := &catalog.FileSource{Path: o.catalog}

	var src recommend.CatalogSource
	fields := catalog.ProjectFields
	switch name {
	case catalog.Projects:
		src = &catalog.ProjectSource{Dataset: ds}
	case catalog.Mentors:
		src = &catalog.MentorSource{Dataset: ds}
		fields = catalog.MentorFields
	}

	store := recommend.NewSnapshotStore(&recommend.SnapshotBuilder{
		Catalog:  name,
		Source:   src,
		Embedder: emb,
		Fields:   fields,
	}, logger)
	snap, err := store.Refresh(cmd.Context())
	if err != nil {
		return nil, err
	}
	logger.Info().Int("candidates", snap.Len()).Int("actors", snap.Actors()).Msg("catalog loaded")

	return recommend.NewEngine(profile, store, emb, nil, logger)
}

func newRankProjectsCmd() *cobra.Command {
	opts := &rankOptions{}
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Recommend projects for a freelancer query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var q marketplace.ProjectQuery
			if err := decodeInput(cmd, opts.query, &q); err != nil {
				return err
			}
			if opts.k > 0 {
				q.K = opts.k
			}
			engine, err := opts.engine(cmd, catalog.Projects, marketplace.ProjectProfile(marketplace.DefaultProjectOptions()))
			if err != nil {
				return err
			}
			rec, err := marketplace.NewProjectRecommender(engine, nil).Recommend(cmd.Context(), &q)
			if err != nil {
				return err
			}
			return writeJSON(cmd, rec)
		},
	}
	opts.bind(cmd)
	return cmd
}

func newRankMentorsCmd() *cobra.Command {
	opts := &rankOptions{}
	cmd := &cobra.Command{
		Use:   "mentors",
		Short: "Match mentors for a mentee profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var mp marketplace.MenteeProfile
			if err := decodeInput(cmd, opts.query, &mp); err != nil {
				return err
			}
			if opts.k > 0 {
				mp.K = opts.k
			}
			mopts := marketplace.DefaultMentorOptions()
			engine, err := opts.engine(cmd, catalog.Mentors, marketplace.MentorProfile(mopts))
			if err != nil {
				return err
			}
			match, err := marketplace.NewMentorMatcher(engine, mopts, nil).Match(cmd.Context(), &mp)
			if err != nil {
				return err
			}
			return writeJSON(cmd, match)
		},
	}
	opts.bind(cmd)
	return cmd
}
