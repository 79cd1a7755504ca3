// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package fraud

import (
	"math"

	"github.com/tomtom215/skillbridge/internal/recommend"
)

// NumFeatures is the length of a feature vector.
const NumFeatures = 7

// FeatureNames lists the features in vector order.
var FeatureNames = [NumFeatures]string{
	"logins_per_day",
	"bids_per_day",
	"bid_to_project_ratio",
	"payment_amount",
	"login_time_variance",
	"ip_address_count",
	"failed_login_attempts",
}

// Features is a behaviour record in FeatureNames order.
type Features [NumFeatures]float64

// Activity is one user's recent behaviour.
type Activity struct {
	UserID              int            `json:"user_id" validate:"gte=0"`
	LoginsPerDay        float64        `json:"logins_per_day" validate:"gte=0"`
	BidsPerDay          float64        `json:"bids_per_day" validate:"gte=0"`
	BidToProjectRatio   float64        `json:"bid_to_project_ratio" validate:"gte=0"`
	PaymentAmount       float64        `json:"payment_amount" validate:"gte=0"`
	LoginTimeVariance   float64        `json:"login_time_variance" validate:"gte=0"`
	IPAddressCount      int            `json:"ip_address_count" validate:"gte=0"`
	FailedLoginAttempts int            `json:"failed_login_attempts" validate:"gte=0"`
	AdditionalMetadata  map[string]any `json:"additional_metadata,omitempty"`
}

// Features returns the feature vector of a.
func (a *Activity) Features() Features {
	return Features{
		a.LoginsPerDay,
		a.BidsPerDay,
		a.BidToProjectRatio,
		a.PaymentAmount,
		a.LoginTimeVariance,
		float64(a.IPAddressCount),
		float64(a.FailedLoginAttempts),
	}
}

// Validate rejects negative and non-finite features.
func (a *Activity) Validate() error {
	f := a.Features()
	for i, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return recommend.NewInputError(FeatureNames[i], "must be a finite number")
		}
		if v < 0 {
			return recommend.NewInputError(FeatureNames[i], "must not be negative, got %g", v)
		}
	}
	return nil
}
