// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the ranking pipeline.
var (
	// ErrInvalidInput is matched by every *InputError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch is returned when two vectors that must be compared
	// have different lengths. It is fatal for the call.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidWeights is returned when no signal weight is usable.
	ErrInvalidWeights = errors.New("invalid weights: no finite non-zero weight")

	// ErrProviderFailure is matched by every *ProviderError.
	ErrProviderFailure = errors.New("provider failure")

	// ErrNoSnapshot is returned when a ranking call arrives before the first
	// catalog snapshot has been built.
	ErrNoSnapshot = errors.New("catalog snapshot not loaded")
)

// InputError reports a malformed query.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrInvalidInput) true for every InputError.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInputError creates an InputError for the given field.
func NewInputError(field, format string, args ...any) *InputError {
	return &InputError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ProviderError wraps a failure of an external collaborator such as the
// embedding provider or a catalog source. The core never retries.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrProviderFailure) true for every ProviderError.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderFailure
}
