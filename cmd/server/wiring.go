// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package main

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/skillbridge/internal/catalog"
	"github.com/tomtom215/skillbridge/internal/config"
	"github.com/tomtom215/skillbridge/internal/database"
	"github.com/tomtom215/skillbridge/internal/embedding"
	"github.com/tomtom215/skillbridge/internal/events"
	"github.com/tomtom215/skillbridge/internal/fraud"
	"github.com/tomtom215/skillbridge/internal/logging"
	"github.com/tomtom215/skillbridge/internal/marketplace"
	"github.com/tomtom215/skillbridge/internal/metrics"
	"github.com/tomtom215/skillbridge/internal/recommend"
)

// The conversions below keep config free of domain imports other than
// fraud. Zero config values keep the package defaults.

func loggingConfig(cfg *config.Config) logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = cfg.Logging.Level
	lc.Format = cfg.Logging.Format
	lc.Caller = cfg.Logging.Caller
	return lc
}

func embeddingConfig(cfg *config.Config) embedding.Config {
	e := cfg.Embedding
	return embedding.Config{
		Provider:                e.Provider,
		Model:                   e.Model,
		Dimension:               e.Dimension,
		APIKey:                  e.APIKey,
		BatchSize:               e.BatchSize,
		RequestsPerSecond:       e.RequestsPerSecond,
		Burst:                   e.Burst,
		BreakerFailureThreshold: e.BreakerFailures,
		BreakerTimeout:          e.BreakerTimeout,
		CacheSize:               e.CacheSize,
		CacheTTL:                e.CacheTTL,
		BadgerPath:              e.BadgerPath,
		BadgerTTL:               e.BadgerTTL,
	}
}

func eventsConfig(cfg *config.Config) events.Config {
	n := cfg.NATS
	ec := events.DefaultConfig()
	ec.Enabled = n.Enabled
	ec.Embedded = n.Embedded
	ec.URL = n.URL
	ec.Host = n.Host
	ec.Port = n.Port
	ec.StoreDir = n.StoreDir
	if n.MaxMemory > 0 {
		ec.MaxMemory = n.MaxMemory
	}
	if n.MaxStore > 0 {
		ec.MaxStore = n.MaxStore
	}
	ec.StreamName = n.StreamName
	ec.Subjects = append([]string(nil), n.Subjects...)
	if n.RetentionDays > 0 {
		ec.MaxAge = time.Duration(n.RetentionDays) * 24 * time.Hour
	}
	return ec
}

func engineConfig(cfg *config.Config) *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.Limits.MaxK = cfg.Ranking.MaxK
	rc.Limits.MaxCandidates = cfg.Ranking.MaxCandidates
	rc.Limits.ScoreTimeout = cfg.Ranking.ScoreTimeout
	return rc
}

func projectOptions(cfg *config.Config) marketplace.ProjectOptions {
	p := cfg.Ranking.Projects
	opts := marketplace.DefaultProjectOptions()
	if len(p.Weights) > 0 {
		opts.DefaultWeights = maps.Clone(p.Weights)
	}
	if p.DefaultK > 0 {
		opts.DefaultK = p.DefaultK
	}
	if p.SemanticBlend != 0 || p.AttributeBlend != 0 {
		opts.SemanticBlend = p.SemanticBlend
		opts.AttributeBlend = p.AttributeBlend
	}
	return opts
}

func mentorOptions(cfg *config.Config) marketplace.MentorOptions {
	m := cfg.Ranking.Mentors
	opts := marketplace.DefaultMentorOptions()
	if len(m.Weights) > 0 {
		opts.DefaultWeights = maps.Clone(m.Weights)
	}
	if m.DefaultK > 0 {
		opts.DefaultK = m.DefaultK
	}
	if m.BudgetMin != 0 || m.BudgetMax != 0 {
		opts.BudgetMin = m.BudgetMin
		opts.BudgetMax = m.BudgetMax
	}
	if m.AvailabilityHours > 0 {
		opts.AvailabilityHours = m.AvailabilityHours
	}
	if m.HighRating > 0 {
		opts.HighRating = m.HighRating
	}
	return opts
}

func fraudOptions(cfg *config.Config) fraud.Options {
	f := cfg.Fraud
	opts := fraud.DefaultOptions()
	opts.Weights = map[string]float64{
		fraud.SignalAnomaly:    f.AnomalyWeight,
		fraud.SignalClassifier: f.ClassifierWeight,
	}
	opts.SuspiciousAt = f.SuspiciousAt
	opts.FlaggedAt = f.FlaggedAt
	opts.Limits = f.Limits
	if f.CurrencySymbol != "" {
		opts.CurrencySymbol = f.CurrencySymbol
	}
	return opts
}

func toFeatures(v []float64) fraud.Features {
	var out fraud.Features
	copy(out[:], v)
	return out
}

// fraudModels builds the anomaly model and classifier. Both standardize
// against the same baseline.
func fraudModels(cfg *config.Config) (*fraud.ZScoreModel, *fraud.LogisticModel, error) {
	f := cfg.Fraud
	baseline := fraud.DefaultBaseline()
	if len(f.BaselineMean) > 0 {
		baseline = fraud.Baseline{
			Mean:   toFeatures(f.BaselineMean),
			StdDev: toFeatures(f.BaselineStdDev),
		}
	}
	anomaly, err := fraud.NewZScoreModel(baseline, f.AnomalyScale)
	if err != nil {
		return nil, nil, fmt.Errorf("fraud anomaly model: %w", err)
	}

	classifier := fraud.DefaultLogisticModel()
	classifier.Baseline = baseline
	classifier.Intercept = f.Intercept
	if len(f.Coefficients) > 0 {
		classifier.Coefficients = toFeatures(f.Coefficients)
	}
	return anomaly, classifier, nil
}

func newFraudScorer(cfg *config.Config, publisher fraud.Publisher, logger zerolog.Logger) (*fraud.Scorer, error) {
	anomaly, classifier, err := fraudModels(cfg)
	if err != nil {
		return nil, err
	}
	return fraud.NewScorer(anomaly, classifier, fraudOptions(cfg), publisher, logger)
}

// datasetSource picks where catalogs are read from. db is only used for
// the duckdb source.
func datasetSource(cfg *config.Config, db *database.DB) (catalog.DatasetSource, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceFile:
		return &catalog.FileSource{Path: cfg.Catalog.Path}, nil
	case config.CatalogSourceDuckDB:
		if db == nil {
			return nil, fmt.Errorf("catalog source duckdb requires a database")
		}
		return &catalog.DuckDBSource{DB: db}, nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

// Catalogs holds the snapshot stores behind the ranking engines.
type Catalogs struct {
	Projects *recommend.SnapshotStore
	Mentors  *recommend.SnapshotStore
	Registry *catalog.Registry
}

// newCatalogs creates empty snapshot stores for both catalogs. Each
// completed refresh is announced through onRefresh when it is set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newCatalogs(cfg *config.Config, ds catalog.DatasetSource, emb recommend.Embedder, onRefresh func(*recommend.Snapshot), logger zerolog.Logger) (*Catalogs, error) {
	newStore := func(name string, src recommend.CatalogSource, fields []string) *recommend.SnapshotStore {
		store := recommend.NewSnapshotStore(&recommend.SnapshotBuilder{
			Catalog:   name,
			Source:    src,
			Embedder:  emb,
			Fields:    fields,
			BatchSize: cfg.Catalog.EmbedBatchSize,
		}, logger)
		if onRefresh != nil {
			store.OnRefresh(onRefresh)
		}
		return store
	}

	c := &Catalogs{
		Projects: newStore(catalog.Projects, &catalog.ProjectSource{Dataset: ds}, catalog.ProjectFields),
		Mentors:  newStore(catalog.Mentors, &catalog.MentorSource{Dataset: ds}, catalog.MentorFields),
	}
	registry, err := catalog.NewRegistry(c.Projects, c.Mentors)
	if err != nil {
		return nil, err
	}
	c.Registry = registry
	return c, nil
}

// Services are the ranking front ends served by the API.
type Services struct {
	Projects *marketplace.ProjectRecommender
	Mentors  *marketplace.MentorMatcher
	Fraud    *fraud.Scorer
}

// Notifier is what the services publish to; the event bus in production.
type Notifier interface {
	marketplace.Notifier
	fraud.Publisher
}

// newServices builds one engine per ranking profile on top of the catalogs.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newServices(cfg *config.Config, cats *Catalogs, emb recommend.Embedder, notifier Notifier, logger zerolog.Logger) (*Services, error) {
	ecfg := engineConfig(cfg)

	projEngine, err := recommend.NewEngine(marketplace.ProjectProfile(projectOptions(cfg)), cats.Projects, emb, ecfg, logger)
	if err != nil {
		return nil, fmt.Errorf("project engine: %w", err)
	}
	projEngine.SetObserver(metrics.RankingObserver{})

	mopts := mentorOptions(cfg)
	mentorEngine, err := recommend.NewEngine(marketplace.MentorProfile(mopts), cats.Mentors, emb, ecfg, logger)
	if err != nil {
		return nil, fmt.Errorf("mentor engine: %w", err)
	}
	mentorEngine.SetObserver(metrics.RankingObserver{})

	scorer, err := newFraudScorer(cfg, notifier, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		Projects: marketplace.NewProjectRecommender(projEngine, notifier),
		Mentors:  marketplace.NewMentorMatcher(mentorEngine, mopts, notifier),
		Fraud:    scorer,
	}, nil
}

// openDatabase opens DuckDB only for the duckdb catalog source.
func openDatabase(cfg *config.Config) (*database.DB, error) {
	if cfg.Catalog.Source != config.CatalogSourceDuckDB {
		return nil, nil
	}
	return database.New(&cfg.Database)
}

// warmCatalogs loads both catalogs once before the server accepts traffic.
// Failures leave the catalog unloaded; /health/ready reports it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func warmCatalogs(ctx context.Context, registry *catalog.Registry, logger zerolog.Logger) {
	for _, name := range registry.Names() {
		snap, err := registry.Refresh(ctx, name)
		if err != nil {
			logger.Warn().Err(err).Str("catalog", name).Msg("initial catalog load failed")
			continue
		}
		logger.Info().
			Str("catalog", name).
			Int64("version", snap.Version).
			Int("candidates", snap.Len()).
			Msg("catalog loaded")
	}
}
