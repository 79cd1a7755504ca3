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
)

// Provider names accepted by Config.Provider.
const (
	ProviderHashing = "hashing"
	ProviderGemini  = "gemini"
)

// ErrEmptyBatch is returned by providers that refuse an empty request.
var ErrEmptyBatch = errors.New("embedding: no texts")

// Provider converts texts into vectors of a fixed dimension. Embed returns
// exactly one vector per input text, in input order.
type Provider interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Config selects and tunes the provider stack.
type Config struct {
	// Provider is "hashing" or "gemini".
	Provider string

	// Model is the Gemini embedding model.
	Model string

	// Dimension is the output vector length.
	Dimension int

	// APIKey authenticates against the Gemini API.
	APIKey string

	// BatchSize caps texts per provider request.
	BatchSize int

	// RequestsPerSecond and Burst configure the provider rate limit.
	// Zero disables limiting.
	RequestsPerSecond float64
	Burst             int

	// BreakerFailureThreshold consecutive failures open the breaker for
	// BreakerTimeout.
	BreakerFailureThreshold uint32
	BreakerTimeout          time.Duration

	// CacheSize and CacheTTL configure the in-process tier.
	CacheSize int
	CacheTTL  time.Duration

	// BadgerPath enables the persistent tier. Empty disables it.
	BadgerPath string
	// BadgerTTL bounds how long persisted vectors live. Zero keeps them.
	BadgerTTL time.Duration
}

// NewFromConfig builds Cached(Resilient(backend)). The returned close
// function releases the persistent store, if any.
//
//nolint:gocritic // cfg and logger passed by value are copied once at startup
func NewFromConfig(ctx context.Context, cfg Config, logger zerolog.Logger) (Provider, func() error, error) {
	var backend Provider
	switch cfg.Provider {
	case "", ProviderHashing:
		backend = NewHashingProvider(cfg.Dimension)
	case ProviderGemini:
		g, err := NewGeminiProvider(ctx, cfg.APIKey, cfg.Model, cfg.Dimension, cfg.BatchSize)
		if err != nil {
			return nil, nil, err
		}
		backend = g
	default:
		return nil, nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}

	resilient := NewResilientProvider(backend, ResilienceConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		FailureThreshold:  cfg.BreakerFailureThreshold,
		Timeout:           cfg.BreakerTimeout,
	}, logger)

	var store Store
	closeFn := func() error { return nil }
	if cfg.BadgerPath != "" {
		bs, err := OpenBadgerStore(cfg.BadgerPath, cfg.BadgerTTL)
		if err != nil {
			return nil, nil, err
		}
		store = bs
		closeFn = bs.Close
	}

	cached := NewCachedProvider(resilient, cfg.CacheSize, cfg.CacheTTL, store, logger)

	logger.Info().
		Str("provider", backend.Name()).
		Int("dimension", backend.Dimension()).
		Bool("persistent_cache", store != nil).
		Msg("embedding provider ready")

	return cached, closeFn, nil
}
