// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package middleware

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RequestSample is one observed request.
type RequestSample struct {
	Route      string    `json:"route"`
	Method     string    `json:"method"`
	DurationMS int64     `json:"duration_ms"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

// RouteStats aggregates the samples of one method and route.
type RouteStats struct {
	Route    string  `json:"route"`
	Requests int     `json:"requests"`
	Errors   int     `json:"errors"`
	AvgMS    float64 `json:"avg_ms"`
	P50MS    int64   `json:"p50_ms"`
	P95MS    int64   `json:"p95_ms"`
	P99MS    int64   `json:"p99_ms"`
	MaxMS    int64   `json:"max_ms"`
}

// LatencyMonitor keeps the last N request samples in a ring buffer.
type LatencyMonitor struct {
	mu      sync.RWMutex
	samples []RequestSample
	next    int
	full    bool

	slow   time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// NewLatencyMonitor keeps up to capacity samples and warns about requests
// slower than slow. A zero slow disables the warning.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLatencyMonitor(capacity int, slow time.Duration, logger zerolog.Logger) *LatencyMonitor {
	if capacity < 1 {
		capacity = 1
	}
	return &LatencyMonitor{
		samples: make([]RequestSample, capacity),
		slow:    slow,
		logger:  logger.With().Str("component", "latency").Logger(),
		now:     time.Now,
	}
}

// Record adds a sample, evicting the oldest when full.
func (m *LatencyMonitor) Record(s RequestSample) {
	m.mu.Lock()
	m.samples[m.next] = s
	m.next = (m.next + 1) % len(m.samples)
	if m.next == 0 {
		m.full = true
	}
	m.mu.Unlock()

	if m.slow > 0 && time.Duration(s.DurationMS)*time.Millisecond > m.slow {
		m.logger.Warn().
			Str("method", s.Method).
			Str("route", s.Route).
			Int64("duration_ms", s.DurationMS).
			Msg("slow request")
	}
}

// Recent returns up to n samples, newest last.
func (m *LatencyMonitor) Recent(n int) []RequestSample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.ordered()
	if n < len(all) {
		all = all[len(all)-n:]
	}
	return all
}

// Stats returns per-route statistics ordered by request count, busiest
// first, then by route.
func (m *LatencyMonitor) Stats() []RouteStats {
	m.mu.RLock()
	samples := m.ordered()
	m.mu.RUnlock()

	type acc struct {
		durations []int64
		errors    int
	}
	byRoute := make(map[string]*acc)
	for _, s := range samples {
		key := s.Method + " " + s.Route
		a := byRoute[key]
		if a == nil {
			a = &acc{}
			byRoute[key] = a
		}
		a.durations = append(a.durations, s.DurationMS)
		if s.StatusCode >= http.StatusInternalServerError {
			a.errors++
		}
	}

	stats := make([]RouteStats, 0, len(byRoute))
	for route, a := range byRoute {
		slices.Sort(a.durations)
		var sum int64
		for _, d := range a.durations {
			sum += d
		}
		stats = append(stats, RouteStats{
			Route:    route,
			Requests: len(a.durations),
			Errors:   a.errors,
			AvgMS:    float64(sum) / float64(len(a.durations)),
			P50MS:    percentile(a.durations, 0.50),
			P95MS:    percentile(a.durations, 0.95),
			P99MS:    percentile(a.durations, 0.99),
			MaxMS:    a.durations[len(a.durations)-1],
		})
	}
	slices.SortFunc(stats, func(a, b RouteStats) int {
		if a.Requests != b.Requests {
			return b.Requests - a.Requests
		}
		if a.Route < b.Route {
			return -1
		}
		if a.Route > b.Route {
			return 1
		}
		return 0
	})
	return stats
}

// Middleware records a sample for every request.
func (m *LatencyMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := m.now()
		sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sw, r)

		m.Record(RequestSample{
			Route:      RoutePattern(r),
			Method:     r.Method,
			DurationMS: m.now().Sub(start).Milliseconds(),
			StatusCode: sw.statusCode,
			Timestamp:  start,
		})
	})
}

// ordered returns the samples oldest first. Callers hold mu.
func (m *LatencyMonitor) ordered() []RequestSample {
	if !m.full {
		return slices.Clone(m.samples[:m.next])
	}
	out := make([]RequestSample, 0, len(m.samples))
	out = append(out, m.samples[m.next:]...)
	return append(out, m.samples[:m.next]...)
}

// percentile picks the nearest-rank value from sorted.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
