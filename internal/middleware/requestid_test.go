// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/skillbridge/internal/logging"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		requestID     string
		correlationID string
		wantRequestID string // empty means a generated UUID
		wantCorrID    string // empty means generated
	}{
		{name: "generates ids"},
		{name: "keeps upstream ids", requestID: "req-123", correlationID: "corr-9", wantRequestID: "req-123", wantCorrID: "corr-9"},
		{name: "rejects control characters", requestID: "bad\nid"},
		{name: "rejects oversized id", requestID: strings.Repeat("a", maxIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotRequestID, gotCorrID string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotRequestID = GetRequestID(r.Context())
				gotCorrID = logging.CorrelationIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.requestID != "" {
				req.Header.Set(RequestIDHeader, tt.requestID)
			}
			if tt.correlationID != "" {
				req.Header.Set(CorrelationIDHeader, tt.correlationID)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Header().Get(RequestIDHeader) != gotRequestID {
				t.Errorf("header %q != context %q", rec.Header().Get(RequestIDHeader), gotRequestID)
			}
			if tt.wantRequestID != "" {
				if gotRequestID != tt.wantRequestID {
					t.Errorf("request id = %q, want %q", gotRequestID, tt.wantRequestID)
				}
			} else if _, err := uuid.Parse(gotRequestID); err != nil {
				t.Errorf("generated request id %q is not a UUID", gotRequestID)
			}
			if gotCorrID == "" {
				t.Error("correlation id missing from context")
			}
			if tt.wantCorrID != "" && gotCorrID != tt.wantCorrID {
				t.Errorf("correlation id = %q, want %q", gotCorrID, tt.wantCorrID)
			}
		})
	}
}

func TestRequestID_Unique(t *testing.T) {
	t.Parallel()

	h := RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		id := rec.Header().Get(RequestIDHeader)
		if seen[id] {
			t.Fatalf("duplicate request id %q", id)
		}
		seen[id] = true
	}
}
