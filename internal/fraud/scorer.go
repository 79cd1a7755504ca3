// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package fraud

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/skillbridge/internal/metrics"
	"github.com/tomtom215/skillbridge/internal/recommend"
)

// Status is the outcome of an assessment.
type Status string

const (
	StatusNormal     Status = "normal"
	StatusSuspicious Status = "suspicious"
	StatusFlagged    Status = "flagged"
)

// Signal names used in the ensemble weights.
const (
	SignalAnomaly    = "anomaly"
	SignalClassifier = "classifier"
)

// GenericReason is given for non-normal records without a specific reason.
const GenericReason = "Unusual pattern detected in user behavior"

// Limits are the per-feature levels above which a reason is reported.
type Limits struct {
	LoginsPerDay        float64 `koanf:"logins_per_day"`
	BidsPerDay          float64 `koanf:"bids_per_day"`
	BidToProjectRatio   float64 `koanf:"bid_to_project_ratio"`
	PaymentAmount       float64 `koanf:"payment_amount"`
	LoginTimeVariance   float64 `koanf:"login_time_variance"`
	IPAddressCount      int     `koanf:"ip_address_count"`
	FailedLoginAttempts int     `koanf:"failed_login_attempts"`
}

// Options configure a Scorer.
type Options struct {
	// Weights combine the anomaly and classifier outputs.
	Weights map[string]float64

	// SuspiciousAt and FlaggedAt are the status thresholds.
	SuspiciousAt float64
	FlaggedAt    float64

	Limits Limits

	// CurrencySymbol prefixes payment amounts in reasons.
	CurrencySymbol string
}

// DefaultOptions returns the stock ensemble and thresholds.
func DefaultOptions() Options {
	return Options{
		Weights:      map[string]float64{SignalAnomaly: 0.6, SignalClassifier: 0.4},
		SuspiciousAt: 0.3,
		FlaggedAt:    0.7,
		Limits: Limits{
			LoginsPerDay:        5,
			BidsPerDay:          10,
			BidToProjectRatio:   0.5,
			PaymentAmount:       10000,
			LoginTimeVariance:   8,
			IPAddressCount:      5,
			FailedLoginAttempts: 3,
		},
		CurrencySymbol: "₹",
	}
}

// Assessment is the result for one record. The isolation_forest and
// logistic_regression names are kept for API compatibility; they carry the
// anomaly and classifier outputs.
type Assessment struct {
	UserID           int      `json:"user_id"`
	FraudScore       float64  `json:"fraud_score"`
	FraudProbability float64  `json:"fraud_probability"`
	AnomalyScore     float64  `json:"isolation_forest_score"`
	ClassifierScore  float64  `json:"logistic_regression_score"`
	Status           Status   `json:"status"`
	Reasons          []string `json:"reasons"`
	Timestamp        string   `json:"timestamp"`
}

// Publisher is told about every non-normal assessment. nil disables it.
type Publisher interface {
	FraudAssessed(ctx context.Context, a *Assessment)
}

// Scorer runs the ensemble. It is safe for concurrent use.
type Scorer struct {
	anomaly    AnomalyModel
	classifier Classifier
	opts       Options
	publisher  Publisher
	logger     zerolog.Logger
	now        func() time.Time
}

// NewScorer validates the options and builds a scorer.
//
//nolint:gocritic // options and logger copied once at construction
func NewScorer(anomaly AnomalyModel, classifier Classifier, opts Options, publisher Publisher, logger zerolog.Logger) (*Scorer, error) {
	if anomaly == nil || classifier == nil {
		return nil, fmt.Errorf("fraud scorer needs an anomaly model and a classifier")
	}
	if err := recommend.ValidateWeights(opts.Weights); err != nil {
		return nil, fmt.Errorf("fraud weights: %w", err)
	}
	if !(opts.SuspiciousAt <= opts.FlaggedAt) {
		return nil, fmt.Errorf("suspicious threshold %g is above flagged threshold %g", opts.SuspiciousAt, opts.FlaggedAt)
	}
	return &Scorer{
		anomaly:    anomaly,
		classifier: classifier,
		opts:       opts,
		publisher:  publisher,
		logger:     logger.With().Str("component", "fraud").Logger(),
		now:        time.Now,
	}, nil
}

// NewDefaultScorer builds a scorer with the z-score and logistic models.
func NewDefaultScorer(publisher Publisher, logger zerolog.Logger) (*Scorer, error) {
	anomaly, err := NewZScoreModel(DefaultBaseline(), 0)
	if err != nil {
		return nil, err
	}
	return NewScorer(anomaly, DefaultLogisticModel(), DefaultOptions(), publisher, logger)
}

// Assess scores one activity record.
func (s *Scorer) Assess(ctx context.Context, a *Activity) (*Assessment, error) {
	if a == nil {
		return nil, recommend.NewInputError("body", "is required")
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := a.Features()
	anomaly, err := s.anomaly.Score(f)
	if err != nil {
		return nil, &recommend.ProviderError{Provider: s.anomaly.Name(), Err: err}
	}
	prob, err := s.classifier.Probability(f)
	if err != nil {
		return nil, &recommend.ProviderError{Provider: s.classifier.Name(), Err: err}
	}
	anomaly, prob = clamp01(anomaly), clamp01(prob)

	score := recommend.Combine([]recommend.Signal{
		{Name: SignalAnomaly, Scores: []float64{anomaly}, Present: true},
		{Name: SignalClassifier, Scores: []float64{prob}, Present: true},
	}, s.opts.Weights, 1)[0]

	status := s.Status(score)
	reasons := s.Reasons(a)
	if len(reasons) == 0 && status != StatusNormal {
		reasons = append(reasons, GenericReason)
	}

	out := &Assessment{
		UserID:           a.UserID,
		FraudScore:       score,
		FraudProbability: prob,
		AnomalyScore:     anomaly,
		ClassifierScore:  prob,
		Status:           status,
		Reasons:          reasons,
		Timestamp:        s.now().UTC().Format(time.RFC3339),
	}

	metrics.RecordFraudAssessment(string(status), score)
	if status != StatusNormal {
		s.logger.Info().
			Int("user_id", a.UserID).
			Float64("fraud_score", score).
			Str("status", string(status)).
			Int("reasons", len(reasons)).
			Msg("non-normal fraud assessment")
		if s.publisher != nil {
			s.publisher.FraudAssessed(ctx, out)
		}
	}
	return out, nil
}

// Options returns a copy of the scorer's options.
func (s *Scorer) Options() Options {
	o := s.opts
	o.Weights = make(map[string]float64, len(s.opts.Weights))
	for k, v := range s.opts.Weights {
		o.Weights[k] = v
	}
	return o
}

// Status maps a fraud score to its status.
func (s *Scorer) Status(score float64) Status {
	switch {
	case score < s.opts.SuspiciousAt:
		return StatusNormal
	case score < s.opts.FlaggedAt:
		return StatusSuspicious
	default:
		return StatusFlagged
	}
}

// Reasons lists every feature past its limit, in feature order.
func (s *Scorer) Reasons(a *Activity) []string {
	l := s.opts.Limits
	reasons := make([]string, 0, NumFeatures)
	if a.LoginsPerDay > l.LoginsPerDay {
		reasons = append(reasons, "High login frequency: "+num(a.LoginsPerDay)+" logins per day")
	}
	if a.BidsPerDay > l.BidsPerDay {
		reasons = append(reasons, "High bidding frequency: "+num(a.BidsPerDay)+" bids per day")
	}
	if a.BidToProjectRatio > l.BidToProjectRatio {
		reasons = append(reasons, fmt.Sprintf("Unusual bid-to-project ratio: %.2f", a.BidToProjectRatio))
	}
	if a.PaymentAmount > l.PaymentAmount {
		reasons = append(reasons, fmt.Sprintf("Large payment amount: %s%.2f", s.opts.CurrencySymbol, a.PaymentAmount))
	}
	if a.LoginTimeVariance > l.LoginTimeVariance {
		reasons = append(reasons, "Unusual login time variance: "+num(a.LoginTimeVariance)+" hours")
	}
	if a.IPAddressCount > l.IPAddressCount {
		reasons = append(reasons, fmt.Sprintf("Multiple IP addresses: %d", a.IPAddressCount))
	}
	if a.FailedLoginAttempts > l.FailedLoginAttempts {
		reasons = append(reasons, fmt.Sprintf("Failed login attempts: %d", a.FailedLoginAttempts))
	}
	return reasons
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
