// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/skillbridge/internal/middleware"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status   string           `json:"status"`
	Version  string           `json:"version"`
	Uptime   float64          `json:"uptime_seconds"`
	Catalogs map[string]int64 `json:"catalogs"`
	Events   string           `json:"events,omitempty"`
}

// Health reports overall status and the served snapshot versions.
//
// @Summary Get service health
// @Description Returns "healthy" when every catalog has a snapshot, otherwise "degraded". Catalog versions are 0 until loaded.
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	statuses := h.deps.Catalogs.Statuses()
	versions := make(map[string]int64, len(statuses))
	status := "healthy"
	for _, st := range statuses {
		versions[st.Name] = st.Version
		if !st.Loaded {
			status = "degraded"
		}
	}

	health := HealthStatus{
		Status:   status,
		Version:  h.deps.Version,
		Uptime:   time.Since(h.startTime).Seconds(),
		Catalogs: versions,
	}
	if h.deps.Events != nil {
		health.Events = h.deps.Events.State()
		if health.Events == "open" {
			health.Status = "degraded"
		}
	}
	WriteSuccess(w, r, health)
}

// HealthLive answers liveness probes.
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady answers readiness probes. The service is ready once every
// catalog has a snapshot.
//
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse "Every catalog is loaded"
// @Failure 503 {object} APIResponse "A catalog has no snapshot yet"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.deps.Catalogs.Ready() {
		NewResponseWriter(w, r).ServiceUnavailable("Catalogs are still loading")
		return
	}
	WriteSuccess(w, r, map[string]interface{}{"ready": true})
}

// HealthPerformance returns per-route latency percentiles over the recent
// request window.
//
// @Summary Recent request latency
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=[]middleware.RouteStats}
// @Router /health/performance [get]
func (h *Handler) HealthPerformance(w http.ResponseWriter, r *http.Request) {
	if h.deps.Latency == nil {
		WriteSuccess(w, r, []middleware.RouteStats{})
		return
	}
	WriteSuccess(w, r, h.deps.Latency.Stats())
}
