// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package events

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config selects and tunes the event bus.
type Config struct {
	// Enabled false selects the in-process gochannel bus.
	Enabled bool

	// Embedded starts a nats-server inside the process. URL is ignored.
	Embedded bool
	URL      string

	Host     string
	Port     int
	StoreDir string

	MaxMemory int64
	MaxStore  int64

	StreamName      string
	Subjects        []string
	MaxAge          time.Duration
	DuplicateWindow time.Duration

	MaxReconnects int
	ReconnectWait time.Duration

	// BreakerFailures consecutive publish failures open the breaker for
	// BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultConfig returns a disabled bus with JetStream settings ready for
// when it is turned on.
func DefaultConfig() Config {
	return Config{
		Enabled:         false,
		Embedded:        true,
		URL:             "nats://127.0.0.1:4222",
		Host:            "127.0.0.1",
		Port:            4222,
		StoreDir:        "/data/nats/jetstream",
		MaxMemory:       256 * 1024 * 1024,
		MaxStore:        2 * 1024 * 1024 * 1024,
		StreamName:      "SKILLBRIDGE",
		Subjects:        []string{"catalog.>", "fraud.>", "ranking.>"},
		MaxAge:          7 * 24 * time.Hour,
		DuplicateWindow: 2 * time.Minute,
		MaxReconnects:   -1,
		ReconnectWait:   2 * time.Second,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// Validate checks the fields used when the bus is enabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.StreamName == "" {
		return errors.New("nats stream name is required")
	}
	if len(c.Subjects) == 0 {
		return errors.New("nats stream needs at least one subject")
	}
	if c.Embedded {
		if c.Port < 0 || c.Port > 65535 {
			return fmt.Errorf("nats port %d out of range", c.Port)
		}
		if strings.TrimSpace(c.StoreDir) == "" {
			return errors.New("nats store dir is required for the embedded server")
		}
	} else if !strings.HasPrefix(c.URL, "nats://") && !strings.HasPrefix(c.URL, "tls://") {
		return fmt.Errorf("nats url %q must start with nats:// or tls://", c.URL)
	}
	return nil
}
