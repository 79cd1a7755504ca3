// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package api

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/skillbridge/internal/catalog"
	"github.com/tomtom215/skillbridge/internal/fraud"
	"github.com/tomtom215/skillbridge/internal/marketplace"
	"github.com/tomtom215/skillbridge/internal/middleware"
)

// EventBus reports the state of the event publisher.
type EventBus interface {
	State() string
}

// Dependencies are the services behind the handlers. Events and Latency
// are optional.
type Dependencies struct {
	Projects *marketplace.ProjectRecommender
	Mentors  *marketplace.MentorMatcher
	Fraud    *fraud.Scorer
	Catalogs *catalog.Registry
	Events   EventBus
	Latency  *middleware.LatencyMonitor

	Version string

	// RequestTimeout bounds one ranking or scoring call.
	RequestTimeout time.Duration

	// RefreshPerMinute caps manual catalog refreshes across all clients.
	RefreshPerMinute int
}

// Handler serves the API.
//
// Handler methods are split across files:
//   - handlers_rank.go: recommend, match-mentors, detect-fraud
//   - handlers_catalogs.go: catalog status, refresh, profiles
//   - handlers_health.go: health, live, ready, performance
type Handler struct {
	deps           Dependencies
	refreshLimiter *rate.Limiter
	startTime      time.Time
}

// NewHandler checks the required dependencies.
func NewHandler(deps Dependencies) (*Handler, error) {
	switch {
	case deps.Projects == nil:
		return nil, fmt.Errorf("api: project recommender is required")
	case deps.Mentors == nil:
		return nil, fmt.Errorf("api: mentor matcher is required")
	case deps.Fraud == nil:
		return nil, fmt.Errorf("api: fraud scorer is required")
	case deps.Catalogs == nil:
		return nil, fmt.Errorf("api: catalog registry is required")
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	perMinute := deps.RefreshPerMinute
	if perMinute < 1 {
		perMinute = 1
	}
	return &Handler{
		deps:           deps,
		refreshLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		startTime:      time.Now(),
	}, nil
}
