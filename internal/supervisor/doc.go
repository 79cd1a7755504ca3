// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

/*
Package supervisor runs Skillbridge's long-running services under a suture
v4 supervisor tree.

# Tree

	RootSupervisor ("skillbridge")
	├── CatalogSupervisor ("catalog-layer")
	│   ├── CatalogRefreshService (projects)
	│   └── CatalogRefreshService (mentors)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventBusService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A refresh that panics or a broker that flaps restarts only its own service;
the API keeps serving the last good snapshot.

# Catalog schedules

CatalogScheduler owns one refresh service per catalog and can replace a
schedule at runtime, for example when the config file changes:

	sched, _ := supervisor.NewCatalogScheduler(tree, registry, logger)
	_ = sched.Schedule(services.CatalogRefreshConfig{Catalog: "projects", Interval: 15 * time.Minute})

# Logging

Supervisor events (service failures, restarts, backoff) are logged through
sutureslog with the slog handler from the logging package, so they share
the zerolog output of the rest of the process.
*/
package supervisor
