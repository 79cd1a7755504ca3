// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

/*
Package api serves the ranking, matching and fraud scoring endpoints over
HTTP using the chi router.

# Endpoints

	POST /api/v1/recommend                 rank projects for a freelancer
	POST /api/v1/match-mentors             rank mentors for a mentee
	POST /api/v1/detect-fraud              score one user's activity
	GET  /api/v1/catalogs                  snapshot status per catalog
	POST /api/v1/catalogs/{name}/refresh   rebuild a snapshot now
	GET  /api/v1/profiles/{name}           default weights of a profile
	GET  /api/v1/health                    overall status
	GET  /api/v1/health/live               liveness probe
	GET  /api/v1/health/ready              readiness probe
	GET  /api/v1/health/performance        recent latency per route
	GET  /metrics                          Prometheus metrics
	GET  /swagger/*                        Swagger UI

# Responses

Every JSON response uses the APIResponse envelope:

	{
	  "success": true,
	  "data": {...},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

Errors set success to false and carry an APIError with a stable code such
as VALIDATION_FAILED, INVALID_WEIGHTS or SERVICE_UNAVAILABLE. Domain errors
are mapped to status codes in errorResponse; unrecognized errors become 500
without exposing their text.

# Middleware

Applied globally, in order: request ID, real IP, panic recovery, CORS,
Prometheus metrics and the latency monitor. The /api/v1 routes add per-IP
rate limiting (go-chi/httprate) and security headers; the ranking routes
compress JSON responses. Manual catalog refreshes have their own global
limit.
*/
package api
