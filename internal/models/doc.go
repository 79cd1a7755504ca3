// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

/*
Package models defines the marketplace records shared by the catalog
sources, the DuckDB store, the rankers and the CLI.

Key Components:

  - Project: a freelance project open for bids
  - Mentor: a mentor offering paid sessions
  - Engagement: an actor's interaction with a project, the input of
    collaborative scoring
  - Dataset: everything a catalog file or database holds

Records carry JSON tags only. YAML catalogs are decoded through koanf with
the json tag, so one set of names covers every format.
*/
package models
