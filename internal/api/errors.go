// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/skillbridge/internal/logging"
	"github.com/tomtom215/skillbridge/internal/recommend"
)

var (
	// ErrUnknownCatalog is returned for a catalog name the server does not serve.
	ErrUnknownCatalog = errors.New("unknown catalog")

	// ErrUnknownProfile is returned for a ranking profile the server does not serve.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrRefreshRejected is returned when manual refreshes are rate limited.
	ErrRefreshRejected = errors.New("catalog refresh rate limited")
)

// errorResponse maps a domain error to status, code and client message.
// Unrecognized errors are internal and their text is not exposed.
func errorResponse(err error) (status int, code, message string) {
	var inputErr *recommend.InputError
	var providerErr *recommend.ProviderError

	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, ErrCodeBadRequest, inputErr.Error()
	case errors.Is(err, recommend.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeBadRequest, err.Error()
	case errors.Is(err, recommend.ErrInvalidWeights):
		return http.StatusBadRequest, ErrCodeInvalidWeights, err.Error()
	case errors.Is(err, recommend.ErrNoSnapshot):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Catalog is not loaded yet"
	case errors.As(err, &providerErr):
		return http.StatusBadGateway, ErrCodeExternalServiceFail, "External service unavailable: " + providerErr.Provider
	case errors.Is(err, recommend.ErrProviderFailure):
		return http.StatusBadGateway, ErrCodeExternalServiceFail, "External service unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out"
	case errors.Is(err, ErrUnknownCatalog), errors.Is(err, ErrUnknownProfile):
		return http.StatusNotFound, ErrCodeNotFound, err.Error()
	case errors.Is(err, ErrRefreshRejected):
		return http.StatusTooManyRequests, ErrCodeTooManyRequests, err.Error()
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "An internal error occurred"
	}
}

// respondError writes err as an envelope and logs server-side failures.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Str("code", code).Str("path", r.URL.Path).Msg("API error")
	} else {
		logging.Ctx(r.Context()).Debug().Err(err).Str("code", code).Msg("request rejected")
	}
	NewResponseWriter(w, r).Error(status, code, message)
}
