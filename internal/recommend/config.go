// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

import (
	"fmt"
	"time"
)

// Config contains engine-wide operational settings. Signal weights and
// default K belong to the Profile.
type Config struct {
	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`
}

// LimitsConfig bounds the work of a single ranking call.
type LimitsConfig struct {
	// MaxK caps the requested result size. Larger requests are clamped.
	MaxK int `json:"max_k"`

	// MaxCandidates is the largest snapshot the engine ranks. Bigger
	// snapshots fail the call instead of silently truncating.
	MaxCandidates int `json:"max_candidates"`

	// ScoreTimeout bounds the scoring phase, including query embedding.
	ScoreTimeout time.Duration `json:"score_timeout"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxK:          100,
			MaxCandidates: 100000,
			ScoreTimeout:  5 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.MaxK < 1 {
		return fmt.Errorf("limits.max_k must be positive, got %d", c.Limits.MaxK)
	}
	if c.Limits.MaxCandidates < 1 {
		return fmt.Errorf("limits.max_candidates must be positive, got %d", c.Limits.MaxCandidates)
	}
	if c.Limits.ScoreTimeout <= 0 {
		return fmt.Errorf("limits.score_timeout must be positive, got %v", c.Limits.ScoreTimeout)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
