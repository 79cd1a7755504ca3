// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

/*
Package services adapts Skillbridge components to suture v4 services.

Each wrapper implements suture.Service and fmt.Stringer:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Serve blocks until ctx is canceled and returns ctx.Err() on a clean stop.
Any other error is reported to the supervisor, which restarts the service
with backoff.

# Available Services

HTTPServerService runs an *http.Server and drains connections on shutdown.

CatalogRefreshService rebuilds one catalog snapshot on a fixed interval.
Failed rebuilds are logged and the previous snapshot keeps serving.

EventBusService owns the event bus lifetime and closes the publisher,
NATS connection and embedded server when the tree stops. It also logs
breaker state changes.
*/
package services
