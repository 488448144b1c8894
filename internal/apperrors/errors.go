// Package apperrors defines the error kinds every store and service reports.
// Repositories and services wrap these sentinels with fmt.Errorf("...: %w", ...)
// so handlers can map them to HTTP statuses with errors.Is.
package apperrors

import "errors"

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized marks bad credentials or a required identity that did not resolve.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks an authenticated user acting outside their permissions.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness violation.
	ErrConflict = errors.New("conflict")
)
