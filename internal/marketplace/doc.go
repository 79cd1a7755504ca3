// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

// Package marketplace provides the project recommender and the mentor
// matcher. Both are profiles of the generic ranking engine in package
// recommend; this package supplies their signals, filters, explanation
// rules and request/response shapes.
//
// # Project recommender
//
// Signals: semantic (skills text vs description), attr (skill overlap),
// content (0.7 semantic + 0.3 attr), collaborative (co-engagement) and
// category (preferred categories). Default weights are
// {content: 0.6, collaborative: 0.4}; projects the user already engaged
// with are never returned.
//
// # Mentor matcher
//
// Signals: skills, industry, goals_bio, experience and rating, weighted
// 0.4/0.2/0.2/0.1/0.1 by default. Mentors outside the budget range or
// below the requested weekly availability score 0.
package marketplace
