// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPrice is returned when a price is negative or not a finite number.
	ErrInvalidPrice = fmt.Errorf("%w: price must be a non-negative number", ErrValidation)

	// ErrInvalidQuantity is returned when a cart quantity is below one.
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
)

// FieldError describes a single failed field check.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates field-level failures. It matches ErrValidation
// through errors.Is.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
