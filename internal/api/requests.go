// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skillbridge/internal/validation"
)

// maxBodyBytes bounds request bodies. A project history of ten thousand ids
// fits comfortably.
const maxBodyBytes = 1 << 20

// decodeRequest reads a JSON body into dst and validates it. On failure it
// writes the error response and returns false.
//
// Request structs carry their own validate tags, for example:
//
//	var q marketplace.ProjectQuery
//	if !decodeRequest(w, r, &q) {
//	    return
//	}
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	rw := NewResponseWriter(w, r)

	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			rw.Error(http.StatusUnsupportedMediaType, ErrCodeBadRequest, "Content-Type must be application/json")
			return false
		}
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, "Request body is too large")
		case errors.Is(err, io.EOF):
			rw.BadRequest("Request body is required")
		default:
			rw.BadRequest("Invalid JSON: " + sanitizeMessage(err.Error()))
		}
		return false
	}
	if dec.More() {
		rw.BadRequest("Request body must contain a single JSON object")
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// sanitizeMessage strips control characters from decoder errors, which may
// echo client input.
func sanitizeMessage(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
