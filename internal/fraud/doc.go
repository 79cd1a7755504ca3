// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

/*
Package fraud scores user behaviour records for fraud risk.

Two models run over the same seven features: an AnomalyModel scoring how
far the record sits from normal behaviour, and a Classifier giving the
probability that the record is fraudulent. Their outputs are combined with
the ranking engine's weighted combiner (0.6 anomaly + 0.4 classifier by
default) and mapped to a status:

	fraud_score < 0.3        normal
	0.3 <= fraud_score < 0.7 suspicious
	fraud_score >= 0.7       flagged

Independently of the score, each feature past its limit contributes a
readable reason. When no feature is past its limit but the status is not
normal, a generic reason is given instead.

The default models are a z-score distance and a logistic regression, both
over features standardized against a baseline of normal behaviour. Any
other model plugs in through the interfaces.
*/
package fraud
