// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/skillbridge/internal/fraud"
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

var validLogFormats = map[string]bool{"json": true, "console": true}

var validEmbeddingProviders = map[string]bool{"hashing": true, "gemini": true}

var validNATSSchemes = map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}

// Validate checks the configuration, naming the environment variable for
// each offending field where one exists.
func (c *Config) Validate() error {
	checks := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateSecurity,
		c.validateRanking,
		c.validateEmbedding,
		c.validateCatalog,
		c.validateFraud,
		c.validateNATS,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 || c.Security.RateLimitReqs > 100000 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and 100000, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow < time.Second || c.Security.RateLimitWindow > time.Hour {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between 1s and 1h, got %s", c.Security.RateLimitWindow)
	}
	if c.Security.RefreshRateLimit < 1 {
		return fmt.Errorf("REFRESH_RATE_LIMIT must be at least 1, got %d", c.Security.RefreshRateLimit)
	}
	return nil
}

func (c *Config) validateRanking() error {
	r := c.Ranking
	if r.MaxK < 1 {
		return fmt.Errorf("RANKING_MAX_K must be at least 1, got %d", r.MaxK)
	}
	if r.MaxCandidates < 1 {
		return fmt.Errorf("RANKING_MAX_CANDIDATES must be at least 1, got %d", r.MaxCandidates)
	}
	if r.ScoreTimeout < 0 {
		return fmt.Errorf("RANKING_SCORE_TIMEOUT must not be negative, got %s", r.ScoreTimeout)
	}
	if r.Projects.DefaultK < 0 || r.Projects.DefaultK > r.MaxK {
		return fmt.Errorf("PROJECTS_DEFAULT_K must be between 0 and %d, got %d", r.MaxK, r.Projects.DefaultK)
	}
	if r.Mentors.DefaultK < 0 || r.Mentors.DefaultK > r.MaxK {
		return fmt.Errorf("MENTORS_DEFAULT_K must be between 0 and %d, got %d", r.MaxK, r.Mentors.DefaultK)
	}
	if err := validateWeights("ranking.projects.weights", r.Projects.Weights); err != nil {
		return err
	}
	if err := validateWeights("ranking.mentors.weights", r.Mentors.Weights); err != nil {
		return err
	}
	for name, v := range map[string]float64{
		"ranking.projects.semantic_blend":  r.Projects.SemanticBlend,
		"ranking.projects.attribute_blend": r.Projects.AttributeBlend,
	} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, v)
		}
	}
	if r.Mentors.BudgetMin < 0 || r.Mentors.BudgetMax < 0 {
		return fmt.Errorf("ranking.mentors budget bounds must not be negative")
	}
	if r.Mentors.BudgetMax > 0 && r.Mentors.BudgetMin > r.Mentors.BudgetMax {
		return fmt.Errorf("ranking.mentors.budget_min (%v) exceeds budget_max (%v)", r.Mentors.BudgetMin, r.Mentors.BudgetMax)
	}
	return nil
}

func validateWeights(path string, weights map[string]float64) error {
	for name, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%s.%s must be finite", path, name)
		}
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	e := c.Embedding
	if !validEmbeddingProviders[e.Provider] {
		return fmt.Errorf("EMBEDDING_PROVIDER must be hashing or gemini, got %q", e.Provider)
	}
	if e.Provider == "gemini" && e.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required when EMBEDDING_PROVIDER=gemini")
	}
	if e.Dimension < 1 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be positive, got %d", e.Dimension)
	}
	if e.BatchSize < 1 {
		return fmt.Errorf("EMBEDDING_BATCH_SIZE must be positive, got %d", e.BatchSize)
	}
	if e.RequestsPerSecond < 0 || e.Burst < 0 {
		return fmt.Errorf("EMBEDDING_REQUESTS_PER_SECOND and EMBEDDING_BURST must not be negative")
	}
	if e.CacheSize < 0 {
		return fmt.Errorf("EMBEDDING_CACHE_SIZE must not be negative, got %d", e.CacheSize)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Source {
	case CatalogSourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("CATALOG_PATH is required when CATALOG_SOURCE=file")
		}
	case CatalogSourceDuckDB:
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when CATALOG_SOURCE=duckdb")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be file or duckdb, got %q", c.Catalog.Source)
	}
	if c.Catalog.RefreshInterval < 0 {
		return fmt.Errorf("CATALOG_REFRESH_INTERVAL must not be negative, got %s", c.Catalog.RefreshInterval)
	}
	if c.Catalog.EmbedBatchSize < 0 {
		return fmt.Errorf("catalog.embed_batch_size must not be negative, got %d", c.Catalog.EmbedBatchSize)
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateFraud() error {
	f := c.Fraud
	if f.SuspiciousAt <= 0 || f.SuspiciousAt > f.FlaggedAt || f.FlaggedAt > 1 {
		return fmt.Errorf("fraud thresholds must satisfy 0 < FRAUD_SUSPICIOUS_AT <= FRAUD_FLAGGED_AT <= 1, got %v and %v",
			f.SuspiciousAt, f.FlaggedAt)
	}
	if f.AnomalyWeight < 0 || f.ClassifierWeight < 0 || f.AnomalyWeight+f.ClassifierWeight <= 0 {
		return fmt.Errorf("fraud weights must be non-negative with a positive sum")
	}
	if f.AnomalyScale <= 0 {
		return fmt.Errorf("fraud.anomaly_scale must be positive, got %v", f.AnomalyScale)
	}
	for name, v := range map[string][]float64{
		"fraud.baseline_mean":   f.BaselineMean,
		"fraud.baseline_stddev": f.BaselineStdDev,
		"fraud.coefficients":    f.Coefficients,
	} {
		if len(v) != 0 && len(v) != fraud.NumFeatures {
			return fmt.Errorf("%s must have %d values, got %d", name, fraud.NumFeatures, len(v))
		}
	}
	if (len(f.BaselineMean) == 0) != (len(f.BaselineStdDev) == 0) {
		return fmt.Errorf("fraud.baseline_mean and fraud.baseline_stddev must be set together")
	}
	for i, sd := range f.BaselineStdDev {
		if sd <= 0 {
			return fmt.Errorf("fraud.baseline_stddev[%d] must be positive, got %v", i, sd)
		}
	}
	return nil
}

func (c *Config) validateNATS() error {
	n := c.NATS
	if !n.Enabled {
		return nil
	}
	if n.StreamName == "" {
		return fmt.Errorf("NATS_STREAM is required when NATS_ENABLED=true")
	}
	if len(n.Subjects) == 0 {
		return fmt.Errorf("NATS_SUBJECTS must list at least one subject")
	}
	if n.RetentionDays < 1 {
		return fmt.Errorf("NATS_RETENTION_DAYS must be at least 1, got %d", n.RetentionDays)
	}
	if n.Embedded {
		if n.Port < 0 || n.Port > 65535 {
			return fmt.Errorf("NATS_PORT must be between 0 and 65535, got %d", n.Port)
		}
		if n.StoreDir == "" {
			return fmt.Errorf("NATS_STORE_DIR is required for the embedded server")
		}
		return nil
	}
	u, err := url.Parse(n.URL)
	if err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if !validNATSSchemes[u.Scheme] || u.Host == "" {
		return fmt.Errorf("NATS_URL must be nats://, tls://, ws:// or wss:// with a host, got %q", n.URL)
	}
	return nil
}

// ShouldWarnAboutCORS reports a wildcard origin in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, o := range c.Security.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
