// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/skillbridge/internal/fraud"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/skillbridge/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8088,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			CORSOrigins:      []string{"*"},
			RateLimitReqs:    100,
			RateLimitWindow:  time.Minute,
			RefreshRateLimit: 6,
		},
		Ranking: RankingConfig{
			MaxK:          100,
			MaxCandidates: 100000,
			ScoreTimeout:  5 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Provider:        "hashing",
			Model:           "text-embedding-004",
			Dimension:       256,
			BatchSize:       100,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
			CacheSize:       10000,
			CacheTTL:        time.Hour,
			BadgerPath:      "",
		},
		Catalog: CatalogConfig{
			Source:           CatalogSourceFile,
			Path:             "data/catalog.json",
			RefreshInterval:  15 * time.Minute,
			RefreshOnStartup: true,
			EmbedBatchSize:   100,
		},
		Database: DatabaseConfig{
			Path:      "/data/skillbridge.duckdb",
			MaxMemory: "1GB",
		},
		Fraud: FraudConfig{
			AnomalyWeight:    0.6,
			ClassifierWeight: 0.4,
			SuspiciousAt:     0.3,
			FlaggedAt:        0.7,
			AnomalyScale:     3,
			Intercept:        -4,
			CurrencySymbol:   "₹",
			Limits:           fraud.DefaultOptions().Limits,
		},
		NATS: NATSConfig{
			Enabled:       false,
			Embedded:      true,
			URL:           "nats://127.0.0.1:4222",
			Host:          "127.0.0.1",
			Port:          4222,
			StoreDir:      "/data/nats/jetstream",
			MaxMemory:     256 << 20,
			MaxStore:      2 << 30,
			StreamName:    "SKILLBRIDGE",
			Subjects:      []string{"catalog.>", "fraud.>", "ranking.>"},
			RetentionDays: 7,
		},
	}
}

// Load reads .env, then layers defaults, the config file and the
// environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadWithKoanf()
}

// LoadWithKoanf applies the koanf layers without reading .env.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ConfigFile returns the file Load would read, or "".
func ConfigFile() string {
	return findConfigFile()
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"nats.subjects",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variables to koanf paths.
var envMappings = map[string]string{
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"refresh_rate_limit":  "security.refresh_rate_limit",

	"ranking_max_k":          "ranking.max_k",
	"ranking_max_candidates": "ranking.max_candidates",
	"ranking_score_timeout":  "ranking.score_timeout",
	"projects_default_k":     "ranking.projects.default_k",
	"mentors_default_k":      "ranking.mentors.default_k",

	"embedding_provider":            "embedding.provider",
	"embedding_model":               "embedding.model",
	"embedding_dimension":           "embedding.dimension",
	"gemini_api_key":                "embedding.api_key",
	"embedding_batch_size":          "embedding.batch_size",
	"embedding_requests_per_second": "embedding.requests_per_second",
	"embedding_burst":               "embedding.burst",
	"embedding_cache_size":          "embedding.cache_size",
	"embedding_cache_ttl":           "embedding.cache_ttl",
	"embedding_badger_path":         "embedding.badger_path",

	"catalog_source":             "catalog.source",
	"catalog_path":               "catalog.path",
	"catalog_refresh_interval":   "catalog.refresh_interval",
	"catalog_refresh_on_startup": "catalog.refresh_on_startup",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"fraud_suspicious_at": "fraud.suspicious_at",
	"fraud_flagged_at":    "fraud.flagged_at",

	"nats_enabled":        "nats.enabled",
	"nats_embedded":       "nats.embedded",
	"nats_url":            "nats.url",
	"nats_port":           "nats.port",
	"nats_store_dir":      "nats.store_dir",
	"nats_stream":         "nats.stream_name",
	"nats_subjects":       "nats.subjects",
	"nats_retention_days": "nats.retention_days",
}

// envTransformFunc returns "" for unmapped variables so that unrelated
// environment does not leak into the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever path changes. The caller reloads
// and swaps configuration under its own lock.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
