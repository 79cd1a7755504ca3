// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points CONFIG_PATH at a missing file and moves into an empty
// directory so no config.yaml on the machine is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	return dir
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 8088 || cfg.Server.Timeout != 30*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Ranking.MaxK != 100 || cfg.Ranking.Projects.Weights != nil {
		t.Errorf("ranking = %+v", cfg.Ranking)
	}
	if cfg.Embedding.Provider != "hashing" || cfg.Catalog.Source != CatalogSourceFile {
		t.Errorf("embedding/catalog = %+v / %+v", cfg.Embedding, cfg.Catalog)
	}
	if cfg.Fraud.Limits.FailedLoginAttempts == 0 || cfg.Fraud.CurrencySymbol != "₹" {
		t.Errorf("fraud = %+v", cfg.Fraud)
	}
	if cfg.NATS.Enabled || len(cfg.NATS.Subjects) != 3 {
		t.Errorf("nats = %+v", cfg.NATS)
	}
}

func TestLoadWithKoanf_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RANKING_MAX_K", "25")
	t.Setenv("CATALOG_REFRESH_INTERVAL", "5m")
	t.Setenv("NATS_SUBJECTS", "catalog.>,fraud.>")
	t.Setenv("UNRELATED_SETTING", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.Logging.Level != "debug" || cfg.Ranking.MaxK != 25 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Catalog.RefreshInterval != 5*time.Minute {
		t.Errorf("RefreshInterval = %s", cfg.Catalog.RefreshInterval)
	}
	if got := strings.Join(cfg.Security.CORSOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Errorf("CORSOrigins = %q", got)
	}
	if len(cfg.NATS.Subjects) != 2 {
		t.Errorf("Subjects = %v", cfg.NATS.Subjects)
	}
}

func TestLoadWithKoanf_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "skillbridge.yaml")
	yaml := `
server:
  port: 8181
ranking:
  projects:
    weights:
      content: 0.7
      collaborative: 0.3
  mentors:
    default_k: 5
fraud:
  flagged_at: 0.8
  limits:
    failed_login_attempts: 4
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "8282")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 8282 {
		t.Errorf("Port = %d, environment should win over file", cfg.Server.Port)
	}
	if cfg.Ranking.Projects.Weights["content"] != 0.7 || cfg.Ranking.Mentors.DefaultK != 5 {
		t.Errorf("ranking = %+v", cfg.Ranking)
	}
	if cfg.Fraud.FlaggedAt != 0.8 || cfg.Fraud.Limits.FailedLoginAttempts != 4 {
		t.Errorf("fraud = %+v", cfg.Fraud)
	}
	if cfg.Fraud.Limits.BidsPerDay == 0 {
		t.Error("unset limits lost their defaults")
	}
	if ConfigFile() != path {
		t.Errorf("ConfigFile() = %q", ConfigFile())
	}
}

func TestLoadWithKoanf_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("EMBEDDING_PROVIDER", "gemini")

	_, err := LoadWithKoanf()
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("err = %v, want missing api key", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled", func(c *Config) { c.Security.RateLimitReqs = 0; c.Security.RateLimitDisabled = true }, ""},
		{"max k", func(c *Config) { c.Ranking.MaxK = 0 }, "RANKING_MAX_K"},
		{"default k above max", func(c *Config) { c.Ranking.Mentors.DefaultK = 500 }, "MENTORS_DEFAULT_K"},
		{"blend", func(c *Config) { c.Ranking.Projects.SemanticBlend = 1.5 }, "semantic_blend"},
		{"budget", func(c *Config) { c.Ranking.Mentors.BudgetMin = 5000; c.Ranking.Mentors.BudgetMax = 1000 }, "budget_min"},
		{"provider", func(c *Config) { c.Embedding.Provider = "openai" }, "EMBEDDING_PROVIDER"},
		{"dimension", func(c *Config) { c.Embedding.Dimension = 0 }, "EMBEDDING_DIMENSION"},
		{"catalog source", func(c *Config) { c.Catalog.Source = "s3" }, "CATALOG_SOURCE"},
		{"catalog path", func(c *Config) { c.Catalog.Path = "" }, "CATALOG_PATH"},
		{"thresholds", func(c *Config) { c.Fraud.SuspiciousAt = 0.9 }, "FRAUD_SUSPICIOUS_AT"},
		{"coefficients", func(c *Config) { c.Fraud.Coefficients = []float64{1, 2} }, "fraud.coefficients"},
		{"baseline pair", func(c *Config) { c.Fraud.BaselineMean = make([]float64, 7) }, "set together"},
		{"nats disabled ignores url", func(c *Config) { c.NATS.URL = "http://x" }, ""},
		{"nats external", func(c *Config) { c.NATS.Enabled = true; c.NATS.Embedded = false; c.NATS.URL = "tls://broker:4222" }, ""},
		{"nats scheme", func(c *Config) { c.NATS.Enabled = true; c.NATS.Embedded = false; c.NATS.URL = "http://broker" }, "NATS_URL"},
		{"nats store dir", func(c *Config) { c.NATS.Enabled = true; c.NATS.StoreDir = "" }, "NATS_STORE_DIR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("warned in development")
	}
	cfg.Server.Environment = "production"
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("no warning for wildcard origin in production")
	}
	cfg.Security.CORSOrigins = []string{"https://app.example"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("warned for explicit origins")
	}
}
