// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package fraud

import (
	"fmt"
	"math"
)

// AnomalyModel scores how unusual a record is, in [0, 1]. Higher is more
// anomalous.
type AnomalyModel interface {
	Name() string
	Score(f Features) (float64, error)
}

// Classifier returns the probability, in [0, 1], that a record is fraud.
type Classifier interface {
	Name() string
	Probability(f Features) (float64, error)
}

// Baseline describes normal behaviour per feature.
type Baseline struct {
	Mean   Features `koanf:"mean" json:"mean"`
	StdDev Features `koanf:"stddev" json:"stddev"`
}

// DefaultBaseline is typical marketplace behaviour: about 3 logins and 5
// bids a day, a 0.3 bid ratio, 5000 payments, 3 hours of login time
// variance, 2 IP addresses and the odd failed login.
func DefaultBaseline() Baseline {
	return Baseline{
		Mean:   Features{3, 5, 0.3, 5000, 3, 2, 0.5},
		StdDev: Features{1.732, 2.236, 0.1, 1000, 1, 1.414, 0.707},
	}
}

// Validate requires positive, finite standard deviations.
func (b *Baseline) Validate() error {
	for i, sd := range b.StdDev {
		if !(sd > 0) || math.IsInf(sd, 0) {
			return fmt.Errorf("baseline stddev for %s must be positive", FeatureNames[i])
		}
		if math.IsNaN(b.Mean[i]) || math.IsInf(b.Mean[i], 0) {
			return fmt.Errorf("baseline mean for %s must be finite", FeatureNames[i])
		}
	}
	return nil
}

// Standardize returns the z-score of every feature.
func (b *Baseline) Standardize(f Features) Features {
	var z Features
	for i := range f {
		z[i] = (f[i] - b.Mean[i]) / b.StdDev[i]
	}
	return z
}

// ZScoreModel measures the root mean square of the positive z-scores and
// squashes it into [0, 1) as d / (d + Scale). Behaviour below the baseline
// is never anomalous.
type ZScoreModel struct {
	Baseline Baseline
	Scale    float64
}

// NewZScoreModel validates the baseline. A scale <= 0 selects 3.
//
//nolint:gocritic // baseline copied once at construction
func NewZScoreModel(b Baseline, scale float64) (*ZScoreModel, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if scale <= 0 {
		scale = 3
	}
	return &ZScoreModel{Baseline: b, Scale: scale}, nil
}

func (m *ZScoreModel) Name() string { return "zscore" }

func (m *ZScoreModel) Score(f Features) (float64, error) {
	z := m.Baseline.Standardize(f)
	var sum float64
	for _, v := range z {
		if v > 0 {
			sum += v * v
		}
	}
	d := math.Sqrt(sum / NumFeatures)
	return d / (d + m.Scale), nil
}

// LogisticModel is a logistic regression over standardized features.
type LogisticModel struct {
	Baseline     Baseline
	Intercept    float64
	Coefficients Features
}

// DefaultLogisticModel weighs every standardized feature equally, with an
// intercept that keeps baseline behaviour near zero probability.
func DefaultLogisticModel() *LogisticModel {
	return &LogisticModel{
		Baseline:     DefaultBaseline(),
		Intercept:    -4,
		Coefficients: Features{0.8, 0.8, 0.8, 0.6, 0.8, 0.8, 0.8},
	}
}

func (m *LogisticModel) Name() string { return "logistic" }

func (m *LogisticModel) Probability(f Features) (float64, error) {
	z := m.Baseline.Standardize(f)
	logit := m.Intercept
	for i, v := range z {
		logit += m.Coefficients[i] * v
	}
	if math.IsNaN(logit) {
		return 0, fmt.Errorf("logistic model produced NaN")
	}
	return 1 / (1 + math.Exp(-logit)), nil
}
