// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/recommend", "200"))

	RecordAPIRequest("POST", "/api/v1/recommend", "200", 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/recommend", "200"))
	if after-before != 1 {
		t.Errorf("api_requests_total delta = %f, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("api_active_requests = %f, want %f", got, start)
	}
}

func TestRecordEmbedding(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome string
	}{
		{"success", nil, "success"},
		{"failure", errors.New("quota"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := EmbeddingRequestsTotal.WithLabelValues("test-provider", tt.outcome)
			before := testutil.ToFloat64(counter)
			texts := testutil.ToFloat64(EmbeddingTextsTotal.WithLabelValues("test-provider"))

			RecordEmbedding("test-provider", 3, time.Millisecond, tt.err)

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("requests delta = %f, want 1", got)
			}
			if got := testutil.ToFloat64(EmbeddingTextsTotal.WithLabelValues("test-provider")) - texts; got != 3 {
				t.Errorf("texts delta = %f, want 3", got)
			}
		})
	}
}

func TestSetCatalogSnapshot(t *testing.T) {
	SetCatalogSnapshot("mentors-test", 4, 120)

	if got := testutil.ToFloat64(CatalogSnapshotVersion.WithLabelValues("mentors-test")); got != 4 {
		t.Errorf("version = %f, want 4", got)
	}
	if got := testutil.ToFloat64(CatalogSnapshotCandidates.WithLabelValues("mentors-test")); got != 120 {
		t.Errorf("candidates = %f, want 120", got)
	}
}

func TestRecordFraudAssessment(t *testing.T) {
	before := testutil.ToFloat64(FraudAssessmentsTotal.WithLabelValues("flagged"))

	RecordFraudAssessment("flagged", 0.82)

	if got := testutil.ToFloat64(FraudAssessmentsTotal.WithLabelValues("flagged")) - before; got != 1 {
		t.Errorf("fraud_assessments_total delta = %f, want 1", got)
	}

	m := &dto.Metric{}
	if err := FraudScore.Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.GetHistogram().GetSampleCount() == 0 {
		t.Error("fraud_score histogram has no samples")
	}
}

func TestRankingObserver(t *testing.T) {
	var obs RankingObserver

	before := testutil.ToFloat64(RankingRequestsTotal.WithLabelValues("observer-test", "ok"))
	absent := testutil.ToFloat64(RankingSignalAbsent.WithLabelValues("observer-test", "collaborative"))

	obs.ObserveRank("observer-test", "ok", 3*time.Millisecond)
	obs.ObserveAbsentSignal("observer-test", "collaborative")

	if got := testutil.ToFloat64(RankingRequestsTotal.WithLabelValues("observer-test", "ok")) - before; got != 1 {
		t.Errorf("ranking_requests_total delta = %f, want 1", got)
	}
	if got := testutil.ToFloat64(RankingSignalAbsent.WithLabelValues("observer-test", "collaborative")) - absent; got != 1 {
		t.Errorf("ranking_signal_absent_total delta = %f, want 1", got)
	}
}

func TestRecordCatalogRefreshAndEvents(t *testing.T) {
	RecordCatalogRefresh("projects-test", time.Second, errors.New("boom"))
	if got := testutil.ToFloat64(CatalogRefreshTotal.WithLabelValues("projects-test", "error")); got < 1 {
		t.Errorf("catalog_refresh_total{error} = %f, want >= 1", got)
	}

	RecordEventPublished("catalog.refreshed", nil)
	if got := testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("catalog.refreshed", "success")); got < 1 {
		t.Errorf("events_published_total{success} = %f, want >= 1", got)
	}
}
