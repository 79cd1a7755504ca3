// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

// Package events publishes Skillbridge domain events on a Watermill bus.
//
// Three topics are produced:
//
//	catalog.refreshed  a catalog snapshot was rebuilt and swapped in
//	fraud.assessed     an activity profile scored suspicious or flagged
//	ranking.served     a recommendation or mentor match was returned
//
// With NATS enabled the bus is a watermill-nats JetStream publisher,
// optionally backed by an embedded nats-server, and the stream is created
// up front by StreamInitializer. With NATS disabled the bus falls back to
// an in-process gochannel so that in-process subscribers and tests still
// see every event.
//
// Publishing is fire-and-forget from the caller's point of view: the
// RankingServed, FraudAssessed and CatalogRefreshed hooks log failures and
// never fail the request that triggered them. Publishes go through a
// circuit breaker so a dead broker costs one fast rejection per event.
package events
