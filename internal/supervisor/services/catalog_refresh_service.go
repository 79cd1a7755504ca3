// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/skillbridge/internal/recommend"
)

// CatalogRefresher rebuilds a named catalog. Satisfied by *catalog.Registry.
type CatalogRefresher interface {
	Refresh(ctx context.Context, name string) (*recommend.Snapshot, error)
}

// CatalogRefreshConfig schedules one catalog.
type CatalogRefreshConfig struct {
	// Catalog is the registry name, e.g. "projects".
	Catalog string

	// RefreshOnStart rebuilds as soon as the service starts.
	RefreshOnStart bool

	// Interval between rebuilds. Zero disables periodic refresh; the
	// service then only performs the start refresh and idles.
	Interval time.Duration

	// Timeout bounds one rebuild. Zero means 10 minutes.
	Timeout time.Duration
}

// CatalogRefreshService rebuilds one catalog snapshot on a schedule.
// Failures are logged and never stop the service: the store keeps serving
// the previous snapshot.
type CatalogRefreshService struct {
	refresher CatalogRefresher
	config    CatalogRefreshConfig
	logger    zerolog.Logger
	name      string
}

// NewCatalogRefreshService creates the service for cfg.Catalog.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogRefreshService(refresher CatalogRefresher, cfg CatalogRefreshConfig, logger zerolog.Logger) *CatalogRefreshService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	return &CatalogRefreshService{
		refresher: refresher,
		config:    cfg,
		logger:    logger.With().Str("service", "catalog-refresh").Str("catalog", cfg.Catalog).Logger(),
		name:      "catalog-refresh-" + cfg.Catalog,
	}
}

// Serve implements suture.Service.
func (s *CatalogRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("refresh_on_start", s.config.RefreshOnStart).
		Dur("interval", s.config.Interval).
		Msg("catalog refresh service starting")

	if s.config.RefreshOnStart {
		s.refresh(ctx)
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog refresh service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *CatalogRefreshService) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	snap, err := s.refresher.Refresh(refreshCtx, s.config.Catalog)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("catalog refresh failed, keeping previous snapshot")
		return
	}
	s.logger.Debug().
		Int64("version", snap.Version).
		Int("candidates", snap.Len()).
		Dur("duration", time.Since(start)).
		Msg("catalog refreshed")
}

func (s *CatalogRefreshService) String() string {
	return s.name
}
