// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// EventBus is the lifecycle of *events.Bus.
type EventBus interface {
	State() string
	Close(ctx context.Context) error
}

// EventBusService closes the bus when the tree stops and logs publisher
// breaker transitions while it runs.
//
// The bus is opened before the tree starts so that the ranking services
// can publish from their first request. Closing is terminal: a restarted
// service only resumes watching.
type EventBusService struct {
	bus             EventBus
	pollInterval    time.Duration
	shutdownTimeout time.Duration
	logger          zerolog.Logger
	name            string
}

// NewEventBusService wraps bus.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEventBusService(bus EventBus, logger zerolog.Logger) *EventBusService {
	return &EventBusService{
		bus:             bus,
		pollInterval:    5 * time.Second,
		shutdownTimeout: 10 * time.Second,
		logger:          logger.With().Str("service", "event-bus").Logger(),
		name:            "event-bus",
	}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	last := s.bus.State()
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			if err := s.bus.Close(shutdownCtx); err != nil {
				return fmt.Errorf("event bus close failed: %w", err)
			}
			s.logger.Info().Msg("event bus closed")
			return ctx.Err()

		case <-ticker.C:
			if state := s.bus.State(); state != last {
				evt := s.logger.Info()
				if state == "open" {
					evt = s.logger.Warn()
				}
				evt.Str("from", last).Str("to", state).Msg("event publisher breaker changed state")
				last = state
			}
		}
	}
}

func (s *EventBusService) String() string {
	return s.name
}
