// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/skillbridge/internal/catalog"
	"github.com/tomtom215/skillbridge/internal/fraud"
	"github.com/tomtom215/skillbridge/internal/logging"
	"github.com/tomtom215/skillbridge/internal/recommend"
)

// fraudProfile is the profile name of the fraud ensemble.
const fraudProfile = "fraud"

// ProfileInfo describes the defaults of one ranking profile.
type ProfileInfo struct {
	Name           string             `json:"name"`
	Signals        []string           `json:"signals"`
	DefaultWeights map[string]float64 `json:"default_weights"`
	DefaultK       int                `json:"default_k,omitempty"`
	Thresholds     map[string]float64 `json:"thresholds,omitempty"`
}

// ListCatalogs reports the snapshot of every catalog.
//
// @Summary List catalogs
// @Description Returns snapshot version, build time, candidate and actor counts and embedding dimension per catalog.
// @Tags Catalogs
// @Produce json
// @Success 200 {object} APIResponse{data=[]catalog.Status}
// @Router /catalogs [get]
func (h *Handler) ListCatalogs(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.deps.Catalogs.Statuses())
}

// RefreshCatalog rebuilds one catalog snapshot now.
//
// @Summary Refresh a catalog
// @Description Reloads the catalog source and re-embeds every candidate. The previous snapshot keeps serving until the new one is complete.
// @Tags Catalogs
// @Produce json
// @Param name path string true "Catalog name" Enums(projects, mentors)
// @Success 200 {object} APIResponse{data=catalog.Status}
// @Failure 404 {object} APIResponse "Unknown catalog"
// @Failure 429 {object} APIResponse "Refresh rate limited"
// @Failure 502 {object} APIResponse "Source or embedding provider failed"
// @Router /catalogs/{name}/refresh [post]
func (h *Handler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := h.deps.Catalogs.Get(name); !ok {
		respondError(w, r, fmt.Errorf("%w: %q", ErrUnknownCatalog, name))
		return
	}
	if !h.refreshLimiter.Allow() {
		respondError(w, r, ErrRefreshRejected)
		return
	}

	snap, err := h.deps.Catalogs.Refresh(r.Context(), name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Str("catalog", name).
		Int64("version", snap.Version).
		Msg("catalog refreshed on request")

	st, _ := h.deps.Catalogs.Status(name)
	WriteSuccess(w, r, st)
}

// GetProfile returns the default weights and K of a profile.
//
// @Summary Get a ranking profile
// @Tags Catalogs
// @Produce json
// @Param name path string true "Profile name" Enums(projects, mentors, fraud)
// @Success 200 {object} APIResponse{data=ProfileInfo}
// @Failure 404 {object} APIResponse "Unknown profile"
// @Router /profiles/{name} [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var info ProfileInfo
	switch name {
	case catalog.Projects:
		info = rankingProfileInfo(h.deps.Projects.Engine().Profile())
	case catalog.Mentors:
		info = rankingProfileInfo(h.deps.Mentors.Engine().Profile())
	case fraudProfile:
		opts := h.deps.Fraud.Options()
		info = ProfileInfo{
			Name:           fraudProfile,
			Signals:        []string{fraud.SignalAnomaly, fraud.SignalClassifier},
			DefaultWeights: opts.Weights,
			Thresholds: map[string]float64{
				string(fraud.StatusSuspicious): opts.SuspiciousAt,
				string(fraud.StatusFlagged):    opts.FlaggedAt,
			},
		}
	default:
		respondError(w, r, fmt.Errorf("%w: %q", ErrUnknownProfile, name))
		return
	}
	WriteSuccess(w, r, info)
}

func rankingProfileInfo(p recommend.Profile) ProfileInfo {
	return ProfileInfo{
		Name:           p.Name,
		Signals:        p.SignalNames(),
		DefaultWeights: p.DefaultWeights,
		DefaultK:       p.DefaultK,
	}
}
