// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package fraud

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/skillbridge/internal/recommend"
)

type stubAnomaly struct {
	score float64
	err   error
}

func (s *stubAnomaly) Name() string                    { return "stub-anomaly" }
func (s *stubAnomaly) Score(Features) (float64, error) { return s.score, s.err }

type stubClassifier struct {
	prob float64
	err  error
}

func (s *stubClassifier) Name() string                          { return "stub-classifier" }
func (s *stubClassifier) Probability(Features) (float64, error) { return s.prob, s.err }

type recordingPublisher struct {
	assessed []*Assessment
}

func (r *recordingPublisher) FraudAssessed(_ context.Context, a *Assessment) {
	r.assessed = append(r.assessed, a)
}

func baselineActivity() *Activity {
	return &Activity{
		UserID:              1,
		LoginsPerDay:        3,
		BidsPerDay:          5,
		BidToProjectRatio:   0.3,
		PaymentAmount:       5000,
		LoginTimeVariance:   3,
		IPAddressCount:      2,
		FailedLoginAttempts: 0,
	}
}

func TestScorer_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		anomaly    float64
		prob       float64
		wantStatus Status
		wantScore  float64
	}{
		{"normal", 0.2, 0.2, StatusNormal, 0.2},
		{"suspicious", 0.5, 0.5, StatusSuspicious, 0.5},
		{"flagged", 0.9, 1.0, StatusFlagged, 0.94},
		{"out of range outputs are clamped", 1.5, -0.5, StatusSuspicious, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pub := &recordingPublisher{}
			s, err := NewScorer(&stubAnomaly{score: tt.anomaly}, &stubClassifier{prob: tt.prob}, DefaultOptions(), pub, zerolog.Nop())
			if err != nil {
				t.Fatalf("NewScorer: %v", err)
			}

			got, err := s.Assess(context.Background(), baselineActivity())
			if err != nil {
				t.Fatalf("Assess: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", got.Status, tt.wantStatus)
			}
			if math.Abs(got.FraudScore-tt.wantScore) > 1e-9 {
				t.Errorf("FraudScore = %f, want %f", got.FraudScore, tt.wantScore)
			}

			wantPublished := 0
			if tt.wantStatus != StatusNormal {
				wantPublished = 1
				if !reflect.DeepEqual(got.Reasons, []string{GenericReason}) {
					t.Errorf("Reasons = %v, want generic reason", got.Reasons)
				}
			} else if len(got.Reasons) != 0 {
				t.Errorf("Reasons = %v, want none", got.Reasons)
			}
			if len(pub.assessed) != wantPublished {
				t.Errorf("published %d assessments, want %d", len(pub.assessed), wantPublished)
			}
		})
	}
}

func TestScorer_Reasons(t *testing.T) {
	t.Parallel()

	s, err := NewDefaultScorer(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDefaultScorer: %v", err)
	}

	a := &Activity{
		UserID:              7,
		LoginsPerDay:        12.5,
		BidsPerDay:          25,
		BidToProjectRatio:   0.8,
		PaymentAmount:       15000,
		LoginTimeVariance:   12,
		IPAddressCount:      8,
		FailedLoginAttempts: 6,
	}
	want := []string{
		"High login frequency: 12.5 logins per day",
		"High bidding frequency: 25 bids per day",
		"Unusual bid-to-project ratio: 0.80",
		"Large payment amount: ₹15000.00",
		"Unusual login time variance: 12 hours",
		"Multiple IP addresses: 8",
		"Failed login attempts: 6",
	}
	if got := s.Reasons(a); !reflect.DeepEqual(got, want) {
		t.Errorf("Reasons() =\n%v\nwant\n%v", got, want)
	}

	// Values exactly at a limit are not reported.
	atLimit := &Activity{LoginsPerDay: 5, BidsPerDay: 10, BidToProjectRatio: 0.5, PaymentAmount: 10000,
		LoginTimeVariance: 8, IPAddressCount: 5, FailedLoginAttempts: 3}
	if got := s.Reasons(atLimit); len(got) != 0 {
		t.Errorf("Reasons(at limit) = %v, want none", got)
	}
}

func TestDefaultScorer_EndToEnd(t *testing.T) {
	t.Parallel()

	s, err := NewDefaultScorer(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDefaultScorer: %v", err)
	}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	normal, err := s.Assess(context.Background(), baselineActivity())
	if err != nil {
		t.Fatalf("Assess(normal): %v", err)
	}
	if normal.Status != StatusNormal || normal.AnomalyScore != 0 || len(normal.Reasons) != 0 {
		t.Errorf("baseline assessment = %+v", normal)
	}
	if normal.Timestamp != "2026-03-01T12:00:00Z" {
		t.Errorf("Timestamp = %q", normal.Timestamp)
	}
	if normal.FraudProbability != normal.ClassifierScore {
		t.Error("fraud_probability should equal the classifier score")
	}

	fraudster := &Activity{UserID: 2, LoginsPerDay: 12, BidsPerDay: 25, BidToProjectRatio: 0.8, PaymentAmount: 20000,
		LoginTimeVariance: 12, IPAddressCount: 8, FailedLoginAttempts: 6}
	flagged, err := s.Assess(context.Background(), fraudster)
	if err != nil {
		t.Fatalf("Assess(fraud): %v", err)
	}
	if flagged.Status != StatusFlagged {
		t.Errorf("Status = %s (score %f), want flagged", flagged.Status, flagged.FraudScore)
	}
	if len(flagged.Reasons) != NumFeatures {
		t.Errorf("Reasons = %v, want one per feature", flagged.Reasons)
	}
	if flagged.FraudScore <= normal.FraudScore {
		t.Error("fraudulent record scored no higher than baseline")
	}
}

func TestScorer_Errors(t *testing.T) {
	t.Parallel()

	modelErr := errors.New("model offline")
	s, err := NewScorer(&stubAnomaly{err: modelErr}, &stubClassifier{}, DefaultOptions(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	_, err = s.Assess(context.Background(), baselineActivity())
	if !errors.Is(err, recommend.ErrProviderFailure) || !errors.Is(err, modelErr) {
		t.Errorf("model error = %v, want ProviderError wrapping cause", err)
	}

	good, _ := NewDefaultScorer(nil, zerolog.Nop())
	tests := []struct {
		name string
		a    *Activity
	}{
		{"nil", nil},
		{"negative", &Activity{LoginsPerDay: -1}},
		{"nan", &Activity{PaymentAmount: math.NaN()}},
		{"inf", &Activity{BidsPerDay: math.Inf(1)}},
	}
	for _, tt := range tests {
		if _, err := good.Assess(context.Background(), tt.a); !errors.Is(err, recommend.ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", tt.name, err)
		}
	}
}

func TestNewScorer_Validation(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Weights = map[string]float64{SignalAnomaly: 0}
	if _, err := NewScorer(&stubAnomaly{}, &stubClassifier{}, opts, nil, zerolog.Nop()); !errors.Is(err, recommend.ErrInvalidWeights) {
		t.Errorf("err = %v, want ErrInvalidWeights", err)
	}

	opts = DefaultOptions()
	opts.SuspiciousAt, opts.FlaggedAt = 0.8, 0.5
	if _, err := NewScorer(&stubAnomaly{}, &stubClassifier{}, opts, nil, zerolog.Nop()); err == nil {
		t.Error("inverted thresholds accepted")
	}

	if _, err := NewScorer(nil, &stubClassifier{}, DefaultOptions(), nil, zerolog.Nop()); err == nil {
		t.Error("nil anomaly model accepted")
	}
}

func TestBaseline_Validate(t *testing.T) {
	t.Parallel()

	b := DefaultBaseline()
	if err := b.Validate(); err != nil {
		t.Fatalf("default baseline invalid: %v", err)
	}
	b.StdDev[3] = 0
	if _, err := NewZScoreModel(b, 0); err == nil {
		t.Error("zero stddev accepted")
	}
}

func TestZScoreModel_BelowBaselineIsNotAnomalous(t *testing.T) {
	t.Parallel()

	m, err := NewZScoreModel(DefaultBaseline(), 0)
	if err != nil {
		t.Fatalf("NewZScoreModel: %v", err)
	}
	score, err := m.Score(Features{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 0 {
		t.Errorf("Score(zero activity) = %f, want 0", score)
	}
}
