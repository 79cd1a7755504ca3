// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for:
// - API endpoint latency and throughput
// - Ranking calls per profile, including absent signals
// - Embedding provider calls, cache tiers and circuit breakers
// - Catalog snapshot refreshes
// - Fraud assessments and published domain events

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Ranking Metrics
	RankingRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_requests_total",
			Help: "Total number of ranking calls by profile and outcome",
		},
		[]string{"profile", "outcome"},
	)

	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ranking_duration_seconds",
			Help:    "Ranking call duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"profile"},
	)

	RankingSignalAbsent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_signal_absent_total",
			Help: "Ranking calls in which a weighted signal had nothing to contribute",
		},
		[]string{"profile", "signal"},
	)

	// Embedding Metrics
	EmbeddingRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding provider calls",
		},
		[]string{"provider", "outcome"},
	)

	EmbeddingTextsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_texts_total",
			Help: "Total number of texts sent to the embedding provider",
		},
		[]string{"provider"},
	)

	EmbeddingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_duration_seconds",
			Help:    "Embedding provider call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	EmbeddingCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_cache_hits_total",
			Help: "Embedding cache hits by tier (memory, badger)",
		},
		[]string{"tier"},
	)

	EmbeddingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_cache_misses_total",
			Help: "Texts that missed every embedding cache tier",
		},
	)

	// Catalog Metrics
	CatalogSnapshotVersion = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_version",
			Help: "Version of the snapshot currently served per catalog",
		},
		[]string{"catalog"},
	)

	CatalogSnapshotCandidates = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_candidates",
			Help: "Number of candidates in the current snapshot per catalog",
		},
		[]string{"catalog"},
	)

	CatalogRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_total",
			Help: "Catalog snapshot refresh attempts by outcome",
		},
		[]string{"catalog", "outcome"},
	)

	CatalogRefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_refresh_duration_seconds",
			Help:    "Duration of catalog snapshot builds in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"catalog"},
	)

	// Fraud Metrics
	FraudAssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraud_assessments_total",
			Help: "Fraud assessments by resulting status",
		},
		[]string{"status"},
	)

	FraudScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fraud_score",
			Help:    "Distribution of combined fraud scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
	)

	// Event Metrics
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events published by topic and outcome",
		},
		[]string{"topic", "outcome"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rejected request.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordEmbedding records one provider call.
func RecordEmbedding(provider string, texts int, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	EmbeddingRequestsTotal.WithLabelValues(provider, outcome).Inc()
	EmbeddingTextsTotal.WithLabelValues(provider).Add(float64(texts))
	EmbeddingDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordEmbeddingCacheHit records a hit in the given tier.
func RecordEmbeddingCacheHit(tier string, n int) {
	EmbeddingCacheHits.WithLabelValues(tier).Add(float64(n))
}

// RecordEmbeddingCacheMiss records texts that had to be embedded.
func RecordEmbeddingCacheMiss(n int) {
	EmbeddingCacheMisses.Add(float64(n))
}

// RecordCatalogRefresh records a snapshot build attempt.
func RecordCatalogRefresh(catalog string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	CatalogRefreshTotal.WithLabelValues(catalog, outcome).Inc()
	CatalogRefreshDuration.WithLabelValues(catalog).Observe(duration.Seconds())
}

// SetCatalogSnapshot publishes the served snapshot's version and size.
func SetCatalogSnapshot(catalog string, version int64, candidates int) {
	CatalogSnapshotVersion.WithLabelValues(catalog).Set(float64(version))
	CatalogSnapshotCandidates.WithLabelValues(catalog).Set(float64(candidates))
}

// RecordFraudAssessment records one scored behaviour record.
func RecordFraudAssessment(status string, score float64) {
	FraudAssessmentsTotal.WithLabelValues(status).Inc()
	FraudScore.Observe(score)
}

// RecordEventPublished records a publish attempt.
func RecordEventPublished(topic string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	EventsPublishedTotal.WithLabelValues(topic, outcome).Inc()
}

// RankingObserver feeds ranking engine telemetry into Prometheus.
type RankingObserver struct{}

// ObserveRank records one ranking call.
func (RankingObserver) ObserveRank(profile, outcome string, elapsed time.Duration) {
	RankingRequestsTotal.WithLabelValues(profile, outcome).Inc()
	RankingDuration.WithLabelValues(profile).Observe(elapsed.Seconds())
}

// ObserveAbsentSignal records a weighted signal that was absent.
func (RankingObserver) ObserveAbsentSignal(profile, signal string) {
	RankingSignalAbsent.WithLabelValues(profile, signal).Inc()
}
