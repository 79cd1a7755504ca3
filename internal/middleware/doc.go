// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

/*
Package middleware provides the HTTP middleware shared by every API route.

Key Components:

  - RequestID: X-Request-ID propagation and the logging context
  - PrometheusMetrics: request counters, latency histograms and the
    active-request gauge, labelled by chi route pattern
  - LatencyMonitor: a sliding window of recent request latencies with
    per-route percentiles, served by the health endpoints

All middleware has the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)

Route labels come from chi's RouteContext after the handler has run, so
"/api/v1/catalogs/{name}/refresh" is recorded once rather than per catalog.
Requests that match no route are recorded as "unmatched".
*/
package middleware
