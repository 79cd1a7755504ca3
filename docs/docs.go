// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

// Package docs registers the OpenAPI document served under /swagger/.
//
// The annotations live on cmd/server/docs.go and the handlers in
// internal/api. Regenerate with:
//
//	swag init -g cmd/server/docs.go -o docs --parseInternal
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/skillbridge/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/recommend": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ranking"],
                "summary": "Recommend projects",
                "parameters": [
                    {
                        "description": "Freelancer profile",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/marketplace.ProjectQuery"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Invalid query or weights", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Catalog not loaded", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/match-mentors": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ranking"],
                "summary": "Match mentors",
                "parameters": [
                    {
                        "description": "Mentee profile",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/marketplace.MenteeProfile"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Invalid profile or weights", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Catalog not loaded", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/detect-fraud": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Fraud"],
                "summary": "Score an activity record",
                "parameters": [
                    {
                        "description": "Behaviour record",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/fraud.Activity"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Invalid record", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/catalogs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalogs"],
                "summary": "List catalog snapshots",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/catalogs/{name}/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Catalogs"],
                "summary": "Rebuild a catalog snapshot",
                "parameters": [
                    {"enum": ["projects", "mentors"], "type": "string", "description": "Catalog name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Unknown catalog", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "429": {"description": "Refresh rate limited", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "502": {"description": "Source or embedding provider failed", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/profiles/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalogs"],
                "summary": "Describe a ranking profile",
                "parameters": [
                    {"enum": ["projects", "mentors", "fraud"], "type": "string", "description": "Profile name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Unknown profile", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Every catalog is loaded", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "A catalog has no snapshot yet", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/health/performance": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Per-route latency percentiles",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {},
                "request_id": {"type": "string"}
            }
        },
        "api.APIMeta": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"},
                "duration_ms": {"type": "integer"}
            }
        },
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/api.APIError"},
                "meta": {"$ref": "#/definitions/api.APIMeta"}
            }
        },
        "marketplace.ProjectQuery": {
            "type": "object",
            "required": ["skills"],
            "properties": {
                "user_id": {"type": "integer", "minimum": 0},
                "skills": {"type": "array", "minItems": 1, "maxItems": 100, "items": {"type": "string"}},
                "preferred_categories": {"type": "array", "maxItems": 50, "items": {"type": "string"}},
                "project_history": {"type": "array", "maxItems": 10000, "items": {"type": "integer"}},
                "weights": {"type": "object", "additionalProperties": {"type": "number"}},
                "k": {"type": "integer", "minimum": 0}
            }
        },
        "marketplace.BudgetRange": {
            "type": "object",
            "properties": {
                "min": {"type": "number", "minimum": 0},
                "max": {"type": "number", "minimum": 0}
            }
        },
        "marketplace.Availability": {
            "type": "object",
            "properties": {
                "hours_per_week": {"type": "number", "minimum": 0}
            }
        },
        "marketplace.MenteeProfile": {
            "type": "object",
            "required": ["skills_to_learn"],
            "properties": {
                "user_id": {"type": "integer", "minimum": 0},
                "skills_to_learn": {"type": "array", "minItems": 1, "maxItems": 100, "items": {"type": "string"}},
                "industry": {"type": "string", "maxLength": 200},
                "experience_years": {"type": "integer", "minimum": 0, "maximum": 80},
                "goals": {"type": "array", "maxItems": 50, "items": {"type": "string"}},
                "preferred_mentorship_type": {"type": "string", "maxLength": 50},
                "budget_range": {"$ref": "#/definitions/marketplace.BudgetRange"},
                "availability": {"$ref": "#/definitions/marketplace.Availability"},
                "weights": {"type": "object", "additionalProperties": {"type": "number"}},
                "k": {"type": "integer", "minimum": 0}
            }
        },
        "fraud.Activity": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer", "minimum": 0},
                "logins_per_day": {"type": "number", "minimum": 0},
                "bids_per_day": {"type": "number", "minimum": 0},
                "bid_to_project_ratio": {"type": "number", "minimum": 0},
                "payment_amount": {"type": "number", "minimum": 0},
                "login_time_variance": {"type": "number", "minimum": 0},
                "ip_address_count": {"type": "integer", "minimum": 0},
                "failed_login_attempts": {"type": "integer", "minimum": 0},
                "additional_metadata": {"type": "object", "additionalProperties": true}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8088",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Skillbridge API",
	Description:      "Hybrid ranking for freelance and mentorship marketplaces",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
