// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

// Package testinfra runs external services in containers for integration
// tests. Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/testinfra/...
//
// # NATS Container
//
// NATSContainer runs a JetStream-enabled NATS server so the event bus can
// be tested against a real broker rather than the embedded one:
//
//	func TestBus(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    nc, err := testinfra.NewNATSContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, nc.Container)
//
//	    cfg := events.DefaultConfig()
//	    cfg.Enabled, cfg.Embedded, cfg.URL = true, false, nc.URL
//	    bus, err := events.Open(ctx, cfg, zerolog.Nop())
//	    // ...
//	}
//
// # CI Considerations
//
// Tests need Docker and skip when it is unavailable. The first run pulls
// the image.
package testinfra
