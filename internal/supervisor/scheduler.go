// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package supervisor

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/skillbridge/internal/supervisor/services"
)

var (
	// ErrNilSupervisorTree is returned when no tree is given.
	ErrNilSupervisorTree = errors.New("supervisor tree cannot be nil")

	// ErrNilRefresher is returned when no catalog refresher is given.
	ErrNilRefresher = errors.New("catalog refresher cannot be nil")

	// ErrNotScheduled is returned for a catalog without a refresh service.
	ErrNotScheduled = errors.New("catalog is not scheduled")
)

// ScheduleStatus describes one scheduled catalog.
type ScheduleStatus struct {
	Catalog   string        `json:"catalog"`
	Interval  time.Duration `json:"interval"`
	StartedAt time.Time     `json:"started_at"`
}

type scheduled struct {
	token     suture.ServiceToken
	config    services.CatalogRefreshConfig
	startedAt time.Time
}

// CatalogScheduler owns the refresh service of every catalog in the
// catalog layer. Rescheduling replaces the service: the old one is stopped
// before the new one is added.
type CatalogScheduler struct {
	tree      *SupervisorTree
	refresher services.CatalogRefresher
	logger    zerolog.Logger

	mu        sync.Mutex
	schedules map[string]*scheduled
	now       func() time.Time
}

// NewCatalogScheduler creates a scheduler that adds services to tree.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogScheduler(tree *SupervisorTree, refresher services.CatalogRefresher, logger zerolog.Logger) (*CatalogScheduler, error) {
	if tree == nil {
		return nil, ErrNilSupervisorTree
	}
	if refresher == nil {
		return nil, ErrNilRefresher
	}
	return &CatalogScheduler{
		tree:      tree,
		refresher: refresher,
		logger:    logger.With().Str("component", "catalog-scheduler").Logger(),
		schedules: make(map[string]*scheduled),
		now:       time.Now,
	}, nil
}

// Schedule starts, or replaces, the refresh service for cfg.Catalog. A
// replacement with the same interval is a no-op.
//
//nolint:gocritic // config is small and copied into the service
func (s *CatalogScheduler) Schedule(cfg services.CatalogRefreshConfig) error {
	if cfg.Catalog == "" {
		return errors.New("catalog name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.schedules[cfg.Catalog]; ok {
		if cur.config.Interval == cfg.Interval {
			return nil
		}
		if err := s.tree.RemoveCatalogService(cur.token); err != nil {
			return fmt.Errorf("stop refresh service for %s: %w", cfg.Catalog, err)
		}
		delete(s.schedules, cfg.Catalog)
		// A replacement never rebuilds on start; the catalog is already loaded.
		cfg.RefreshOnStart = false
	}

	svc := services.NewCatalogRefreshService(s.refresher, cfg, s.logger)
	s.schedules[cfg.Catalog] = &scheduled{
		token:     s.tree.AddCatalogService(svc),
		config:    cfg,
		startedAt: s.now(),
	}
	s.logger.Info().
		Str("catalog", cfg.Catalog).
		Dur("interval", cfg.Interval).
		Msg("catalog refresh scheduled")
	return nil
}

// Reschedule changes the interval of every scheduled catalog.
func (s *CatalogScheduler) Reschedule(interval time.Duration) error {
	var errs []error
	for _, st := range s.Statuses() {
		err := s.Schedule(services.CatalogRefreshConfig{Catalog: st.Catalog, Interval: interval})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Unschedule stops the refresh service of name.
func (s *CatalogScheduler) Unschedule(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.schedules[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotScheduled, name)
	}
	if err := s.tree.RemoveCatalogService(cur.token); err != nil {
		return fmt.Errorf("stop refresh service for %s: %w", name, err)
	}
	delete(s.schedules, name)
	return nil
}

// Statuses lists scheduled catalogs by name.
func (s *CatalogScheduler) Statuses() []ScheduleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ScheduleStatus, 0, len(s.schedules))
	for name, sc := range s.schedules {
		out = append(out, ScheduleStatus{
			Catalog:   name,
			Interval:  sc.config.Interval,
			StartedAt: sc.startedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Catalog < out[j].Catalog })
	return out
}
