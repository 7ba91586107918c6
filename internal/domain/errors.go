package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound               = errors.New("not found")
	ErrAlreadyExists          = errors.New("already exists")
	ErrValidation             = errors.New("validation error")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrMissingTenantContext   = errors.New("missing tenant context")
	ErrForbidden              = errors.New("forbidden")
	ErrIdempotencyConflict    = errors.New("idempotency conflict")
	ErrInvalidCursor          = errors.New("invalid cursor")
	ErrInvalidEntityReference = errors.New("invalid entity reference")
	ErrCreateFailed           = errors.New("create failed")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// IdempotencyConflictError is returned when an idempotency key is reused
// with a different event fingerprint.
type IdempotencyConflictError struct {
	Key    string
	Reason string
}

func (e *IdempotencyConflictError) Error() string {
	return fmt.Sprintf("idempotency conflict for key %q: %s", e.Key, e.Reason)
}

func (e *IdempotencyConflictError) Unwrap() error { return ErrIdempotencyConflict }

// NewHashMismatchError reports that key was already used for a different event.
func NewHashMismatchError(key string) *IdempotencyConflictError {
	return &IdempotencyConflictError{Key: key, Reason: "hash mismatch"}
}
