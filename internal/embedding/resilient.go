// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/skillbridge/internal/metrics"
)

// ResilienceConfig tunes ResilientProvider.
type ResilienceConfig struct {
	// RequestsPerSecond of zero disables rate limiting.
	RequestsPerSecond float64
	Burst             int

	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold uint32

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
}

// ResilientProvider guards a provider with a rate limiter and a circuit
// breaker. Calls are never retried.
type ResilientProvider struct {
	next    Provider
	cb      *gobreaker.CircuitBreaker[[][]float32]
	limiter *rate.Limiter
	name    string
	logger  zerolog.Logger
}

// NewResilientProvider wraps next.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewResilientProvider(next Provider, cfg ResilienceConfig, logger zerolog.Logger) *ResilientProvider {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cbName := "embedding-" + next.Name()
	log := logger.With().Str("component", "embedding").Str("provider", next.Name()).Logger()

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[][]float32](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Caller cancellation says nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("embedding circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &ResilientProvider{next: next, cb: cb, limiter: limiter, name: cbName, logger: log}
}

func (r *ResilientProvider) Name() string   { return r.next.Name() }
func (r *ResilientProvider) Dimension() int { return r.next.Dimension() }

// State returns the breaker state name.
func (r *ResilientProvider) State() string {
	return r.cb.State().String()
}

// Embed waits for a rate-limit token, then calls the wrapped provider
// through the breaker.
func (r *ResilientProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("embedding rate limit: %w", err)
		}
	}

	out, err := r.cb.Execute(func() ([][]float32, error) {
		start := time.Now()
		vecs, err := r.next.Embed(ctx, texts)
		metrics.RecordEmbedding(r.next.Name(), len(texts), time.Since(start), err)
		return vecs, err
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(r.name, "rejected").Inc()
			return nil, fmt.Errorf("embedding provider %s unavailable: %w", r.next.Name(), err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(r.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(r.name).Set(float64(r.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(r.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(r.name).Set(0)
	return out, nil
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
