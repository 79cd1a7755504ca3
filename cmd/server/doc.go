// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

/*
Package main is the entry point for the Skillbridge server.

Skillbridge ranks projects for freelancers, matches mentees with mentors and
scores user activity for fraud. Both ranking use cases share one hybrid
ranking engine; each is a profile of signals and weights over an immutable
catalog snapshot.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("skillbridge")
	├── CatalogSupervisor ("catalog-layer")
	│   ├── catalog-refresh-mentors
	│   └── catalog-refresh-projects
	├── MessagingSupervisor ("messaging-layer")
	│   └── event-bus (breaker watch, close on stop)
	└── APISupervisor ("api-layer")
	    └── http-server

Component initialization order:

 1. Configuration: Koanf v2 with .env, config.yaml and environment variables
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB, only for CATALOG_SOURCE=duckdb
 4. Embeddings: hashing or Gemini provider behind rate limit, breaker and caches
 5. Event bus: NATS JetStream (embedded or external) or in-process channels
 6. Catalogs: one snapshot store per catalog, loaded once at startup
 7. Engines: project recommender, mentor matcher, fraud scorer
 8. HTTP: Chi router with CORS, rate limiting, metrics and Swagger UI
 9. Supervisor tree: HTTP server, event bus and periodic catalog refresh

# Configuration

Core environment variables:

	HTTP_PORT=8088
	LOG_LEVEL=info
	CATALOG_SOURCE=file          # file or duckdb
	CATALOG_PATH=data/catalog.json
	CATALOG_REFRESH_INTERVAL=15m
	EMBEDDING_PROVIDER=hashing   # hashing or gemini
	GEMINI_API_KEY=...
	NATS_ENABLED=false

The catalog refresh interval is picked up from config.yaml without a
restart; every other setting is read once.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
server gracefully, closes the event bus and reports any service that did
not stop within its timeout.
*/
package main
