// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

// @title Skillbridge API
// @version 1.0
// @description Hybrid ranking for freelance and mentorship marketplaces
// @description
// @description ## Features
// @description
// @description - **Project recommendations**: semantic, attribute, content and collaborative signals
// @description - **Mentor matching**: skills, industry, goals, experience and rating with budget and availability filters
// @description - **Fraud scoring**: anomaly and classifier ensemble with readable reasons
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description Manual catalog refreshes share a separate global limit.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {
// @description     "code": "VALIDATION_FAILED",
// @description     "message": "skills is required",
// @description     "details": {"field": "skills", "tag": "required"},
// @description     "request_id": "3f1c..."
// @description   },
// @description   "meta": {
// @description     "request_id": "3f1c...",
// @description     "timestamp": "2026-03-01T12:34:56Z",
// @description     "duration_ms": 0
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/skillbridge/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8088
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Ranking
// @tag.description Project recommendations and mentor matching
//
// @tag.name Fraud
// @tag.description Fraud scoring of user activity records
//
// @tag.name Catalogs
// @tag.description Catalog snapshot status, manual refresh and ranking profiles
//
// @tag.name Health
// @tag.description Health, readiness and latency endpoints
package main
