// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

// Package recommend implements the hybrid ranking engine shared by every
// Skillbridge ranker.
//
// # Architecture
//
// A ranking call runs a fixed pipeline over an immutable catalog snapshot:
//
//   - Scorers: each produces one Signal (a score per candidate). Built-ins
//     cover embedding similarity, tag overlap, collaborative co-occurrence,
//     blends of other scorers and per-candidate attribute functions.
//   - Eligibility: hard predicates (budget range, minimum availability).
//     A rejected candidate keeps its position but its final score is 0.
//   - Combiner: weighted sum over the signals that are present. Weights are
//     used as given and never renormalized.
//   - Top-K: stable ordering by score descending, catalog index ascending.
//   - Explainer: ordered reason rules with a profile fallback.
//
// The pipeline is parameterized by a Profile. The project recommender and
// the mentor matcher in package marketplace are two profiles over the same
// Engine.
//
// # Snapshots
//
// Catalog data (candidates, actor histories and candidate text embeddings)
// lives in a Snapshot. SnapshotStore builds a complete snapshot off to the
// side and publishes it with an atomic pointer swap, so in-flight ranking
// calls keep reading the snapshot they started with.
//
// # Usage
//
//	store := recommend.NewSnapshotStore(&recommend.SnapshotBuilder{
//	    Catalog:  "projects",
//	    Source:   source,
//	    Embedder: provider,
//	    Fields:   []string{"description"},
//	}, logger)
//	if _, err := store.Refresh(ctx); err != nil {
//	    return err
//	}
//
//	engine, err := recommend.NewEngine(profile, store, provider, recommend.DefaultConfig(), logger)
//	result, err := engine.Rank(ctx, query, 10)
//
// # Thread Safety
//
// Engine and SnapshotStore are safe for concurrent use. Ranking calls never
// write shared state. Refreshes are serialized.
package recommend
