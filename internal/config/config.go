// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

// Package config loads Skillbridge configuration with koanf.
//
// Sources are layered, later ones winning:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
//     /etc/skillbridge/config.yaml
//  3. Environment variables listed in envMappings; others are ignored
//
// A .env file in the working directory is read into the environment before
// the layers are applied. Comma-separated environment values are split for
// the slice fields in sliceConfigPaths. The result is checked by Validate.
//
// Example config.yaml:
//
//	server:
//	  port: 8088
//	ranking:
//	  projects:
//	    weights: {content: 0.5, collaborative: 0.3, category: 0.2}
//	embedding:
//	  provider: gemini
//	  model: text-embedding-004
//	catalog:
//	  source: duckdb
//	nats:
//	  enabled: true
package config

import (
	"time"

	"github.com/tomtom215/skillbridge/internal/fraud"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Security  SecurityConfig  `koanf:"security"`
	Ranking   RankingConfig   `koanf:"ranking"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Database  DatabaseConfig  `koanf:"database"`
	Fraud     FraudConfig     `koanf:"fraud"`
	NATS      NATSConfig      `koanf:"nats"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SecurityConfig holds the outer HTTP protections. There is no
// authentication layer.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// RefreshRateLimit caps manual catalog refreshes per minute.
	RefreshRateLimit int `koanf:"refresh_rate_limit"`
}

// RankingConfig holds engine limits and per-profile defaults.
type RankingConfig struct {
	MaxK          int           `koanf:"max_k"`
	MaxCandidates int           `koanf:"max_candidates"`
	ScoreTimeout  time.Duration `koanf:"score_timeout"`

	Projects ProjectRankingConfig `koanf:"projects"`
	Mentors  MentorRankingConfig  `koanf:"mentors"`
}

// ProjectRankingConfig overrides the project profile. Zero values keep the
// built-in defaults.
type ProjectRankingConfig struct {
	Weights        map[string]float64 `koanf:"weights"`
	DefaultK       int                `koanf:"default_k"`
	SemanticBlend  float64            `koanf:"semantic_blend"`
	AttributeBlend float64            `koanf:"attribute_blend"`
}

// MentorRankingConfig overrides the mentor profile. Zero values keep the
// built-in defaults.
type MentorRankingConfig struct {
	Weights           map[string]float64 `koanf:"weights"`
	DefaultK          int                `koanf:"default_k"`
	BudgetMin         float64            `koanf:"budget_min"`
	BudgetMax         float64            `koanf:"budget_max"`
	AvailabilityHours float64            `koanf:"availability_hours"`
	HighRating        float64            `koanf:"high_rating"`
}

// EmbeddingConfig selects the embedding provider stack.
type EmbeddingConfig struct {
	Provider  string `koanf:"provider"`
	Model     string `koanf:"model"`
	Dimension int    `koanf:"dimension"`
	APIKey    string `koanf:"api_key"`
	BatchSize int    `koanf:"batch_size"`

	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`

	CacheSize  int           `koanf:"cache_size"`
	CacheTTL   time.Duration `koanf:"cache_ttl"`
	BadgerPath string        `koanf:"badger_path"`
	BadgerTTL  time.Duration `koanf:"badger_ttl"`
}

// Catalog sources.
const (
	CatalogSourceFile   = "file"
	CatalogSourceDuckDB = "duckdb"
)

// CatalogConfig says where candidates come from and how often snapshots
// are rebuilt.
type CatalogConfig struct {
	// Source is "file" (Path, JSON or YAML) or "duckdb" (Database.Path).
	Source string `koanf:"source"`
	Path   string `koanf:"path"`

	// RefreshInterval of zero disables periodic refresh.
	RefreshInterval  time.Duration `koanf:"refresh_interval"`
	RefreshOnStartup bool          `koanf:"refresh_on_startup"`

	// EmbedBatchSize caps texts per embedding call during a rebuild.
	EmbedBatchSize int `koanf:"embed_batch_size"`
}

// DatabaseConfig configures the DuckDB catalog store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// FraudConfig tunes the fraud ensemble. Empty model slices keep the
// built-in baseline and coefficients.
type FraudConfig struct {
	AnomalyWeight    float64 `koanf:"anomaly_weight"`
	ClassifierWeight float64 `koanf:"classifier_weight"`
	SuspiciousAt     float64 `koanf:"suspicious_at"`
	FlaggedAt        float64 `koanf:"flagged_at"`

	AnomalyScale   float64   `koanf:"anomaly_scale"`
	BaselineMean   []float64 `koanf:"baseline_mean"`
	BaselineStdDev []float64 `koanf:"baseline_stddev"`
	Intercept      float64   `koanf:"intercept"`
	Coefficients   []float64 `koanf:"coefficients"`

	CurrencySymbol string       `koanf:"currency_symbol"`
	Limits         fraud.Limits `koanf:"limits"`
}

// NATSConfig configures the event bus.
type NATSConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Embedded bool   `koanf:"embedded"`
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	StoreDir string `koanf:"store_dir"`

	MaxMemory int64 `koanf:"max_memory"`
	MaxStore  int64 `koanf:"max_store"`

	StreamName    string   `koanf:"stream_name"`
	Subjects      []string `koanf:"subjects"`
	RetentionDays int      `koanf:"retention_days"`
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
