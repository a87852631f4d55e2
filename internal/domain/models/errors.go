package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested record does not exist for the caller.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a request violates a domain rule.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedInput indicates data that lacks required fields, such as a
	// bird without id or name reaching the pedigree builder.
	ErrMalformedInput = errors.New("malformed input")

	// ErrUnauthorized indicates a missing or rejected access token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrFeatureDisabled indicates an optional integration is not configured.
	ErrFeatureDisabled = errors.New("feature disabled")
)

// ValidationError describes which field broke a rule.
type ValidationError struct {
	Field  string
	Reason string
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
