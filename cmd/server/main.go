// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tomtom215/skillbridge/internal/api"
	"github.com/tomtom215/skillbridge/internal/config"
	"github.com/tomtom215/skillbridge/internal/embedding"
	"github.com/tomtom215/skillbridge/internal/events"
	"github.com/tomtom215/skillbridge/internal/logging"
	"github.com/tomtom215/skillbridge/internal/middleware"
	"github.com/tomtom215/skillbridge/internal/supervisor"
	"github.com/tomtom215/skillbridge/internal/supervisor/services"

	_ "github.com/tomtom215/skillbridge/docs" // swagger spec
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

//nolint:gocyclo // startup wiring is linear and reads best in one place
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(loggingConfig(cfg))
	logger := logging.Logger()

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("catalog_source", cfg.Catalog.Source).
		Str("embedding_provider", cfg.Embedding.Provider).
		Msg("Starting Skillbridge")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows all origins in production; set CORS_ORIGINS")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if db != nil {
		defer func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Failed to close database")
			}
		}()
		logging.Info().Str("path", db.Path()).Msg("DuckDB catalog store opened")
	}

	provider, closeProvider, err := embedding.NewFromConfig(ctx, embeddingConfig(cfg), logging.WithComponent("embedding"))
	if err != nil {
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}
	defer func() {
		if err := closeProvider(); err != nil {
			logging.Error().Err(err).Msg("Failed to close embedding store")
		}
	}()

	bus, err := events.Open(ctx, eventsConfig(cfg), logging.WithComponent("events"))
	if err != nil {
		return fmt.Errorf("failed to open event bus: %w", err)
	}
	// The event-bus service closes the bus when the tree stops; this covers
	// early returns. Close is idempotent.
	defer func() {
		if err := bus.Close(context.Background()); err != nil {
			logging.Error().Err(err).Msg("Failed to close event bus")
		}
	}()

	ds, err := datasetSource(cfg, db)
	if err != nil {
		return err
	}
	cats, err := newCatalogs(cfg, ds, provider, bus.CatalogRefreshed, logging.WithComponent("catalog"))
	if err != nil {
		return fmt.Errorf("failed to create catalogs: %w", err)
	}
	svcs, err := newServices(cfg, cats, provider, bus, logger)
	if err != nil {
		return fmt.Errorf("failed to create ranking services: %w", err)
	}

	if cfg.Catalog.RefreshOnStartup {
		warmCatalogs(ctx, cats.Registry, logger)
	}

	latency := middleware.NewLatencyMonitor(1000, time.Second, logging.WithComponent("latency"))
	handler, err := api.NewHandler(api.Dependencies{
		Projects:         svcs.Projects,
		Mentors:          svcs.Mentors,
		Fraud:            svcs.Fraud,
		Catalogs:         cats.Registry,
		Events:           bus,
		Latency:          latency,
		Version:          version,
		RequestTimeout:   cfg.Ranking.ScoreTimeout,
		RefreshPerMinute: cfg.Security.RefreshRateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create API handler: %w", err)
	}
	chiMiddleware := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, chiMiddleware)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	tree.AddMessagingService(services.NewEventBusService(bus, logging.WithComponent("event-bus")))

	scheduler, err := supervisor.NewCatalogScheduler(tree, cats.Registry, logging.WithComponent("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create catalog scheduler: %w", err)
	}
	for _, name := range cats.Registry.Names() {
		if err := scheduler.Schedule(services.CatalogRefreshConfig{
			Catalog:  name,
			Interval: cfg.Catalog.RefreshInterval,
		}); err != nil {
			return fmt.Errorf("failed to schedule catalog %s: %w", name, err)
		}
	}

	watchConfig(scheduler, cfg.Catalog.RefreshInterval)

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	cancel()

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport() //nolint:errcheck // report is best effort
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Skillbridge stopped gracefully")
	return nil
}

// watchConfig reschedules catalog refreshes when the config file changes
// the refresh interval. Other settings need a restart.
func watchConfig(scheduler *supervisor.CatalogScheduler, current time.Duration) {
	path := config.ConfigFile()
	if path == "" {
		return
	}

	var mu sync.Mutex
	err := config.WatchConfigFile(path, func() {
		mu.Lock()
		defer mu.Unlock()

		next, err := config.LoadWithKoanf()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		interval := next.Catalog.RefreshInterval
		if interval == current {
			return
		}
		if err := scheduler.Reschedule(interval); err != nil {
			logging.Warn().Err(err).Msg("Failed to reschedule catalog refresh")
			return
		}
		logging.Info().
			Dur("old_interval", current).
			Dur("new_interval", interval).
			Msg("Catalog refresh interval changed")
		current = interval
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch disabled")
		return
	}
	logging.Info().Str("path", path).Msg("Watching config file for refresh interval changes")
}
