// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/skillbridge/internal/fraud"
	"github.com/tomtom215/skillbridge/internal/marketplace"
)

// withTimeout applies the configured per-call timeout, if any.
func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.deps.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.deps.RequestTimeout)
}

// Recommend ranks projects for a freelancer.
//
// @Summary Recommend projects
// @Description Ranks projects by skill similarity, attribute match and collaborative co-occurrence. Projects in project_history are excluded.
// @Tags Ranking
// @Accept json
// @Produce json
// @Param request body marketplace.ProjectQuery true "Freelancer profile"
// @Success 200 {object} APIResponse{data=marketplace.ProjectRecommendation}
// @Failure 400 {object} APIResponse "Invalid query or weights"
// @Failure 503 {object} APIResponse "Catalog not loaded"
// @Router /recommend [post]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var q marketplace.ProjectQuery
	if !decodeRequest(w, r, &q) {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	out, err := h.deps.Projects.Recommend(ctx, &q)
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, out)
}

// MatchMentors ranks mentors for a mentee.
//
// @Summary Match mentors
// @Description Ranks mentors within the budget and availability limits by skills, industry, goals, experience and rating.
// @Tags Ranking
// @Accept json
// @Produce json
// @Param request body marketplace.MenteeProfile true "Mentee profile"
// @Success 200 {object} APIResponse{data=marketplace.MentorMatch}
// @Failure 400 {object} APIResponse "Invalid profile or weights"
// @Failure 503 {object} APIResponse "Catalog not loaded"
// @Router /match-mentors [post]
func (h *Handler) MatchMentors(w http.ResponseWriter, r *http.Request) {
	var p marketplace.MenteeProfile
	if !decodeRequest(w, r, &p) {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	out, err := h.deps.Mentors.Match(ctx, &p)
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, out)
}

// DetectFraud scores one user's behaviour record.
//
// @Summary Detect fraud
// @Description Combines an anomaly model and a classifier into a fraud score with a status of normal, suspicious or flagged.
// @Tags Fraud
// @Accept json
// @Produce json
// @Param request body fraud.Activity true "Behaviour record"
// @Success 200 {object} APIResponse{data=fraud.Assessment}
// @Failure 400 {object} APIResponse "Invalid record"
// @Router /detect-fraud [post]
func (h *Handler) DetectFraud(w http.ResponseWriter, r *http.Request) {
	var a fraud.Activity
	if !decodeRequest(w, r, &a) {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	out, err := h.deps.Fraud.Assess(ctx, &a)
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, out)
}
