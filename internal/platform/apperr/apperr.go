// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

/*
Package apperr defines the centralized error handling framework for CivicLedger.

It provides a rich error type that bridges the gap between low-level storage
errors and the domain-level failures callers are allowed to observe.

Architecture:

  - AppError: A struct containing a machine-readable ErrorCode and user-friendly messages.
  - Domain constructors: One per failure kind of the records core
    (invalid registration number, duplicate registration, ...).
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes
    for the dashboard surface; the CLI uses the message alone.

Every error that leaves the service layer should be wrapped as an [AppError]
so the command-line boundary can always render a human-readable message.
*/
package apperr

import (
	"errors"
	"net/http"
)

// Machine-readable error codes for the records domain.
const (
	CodeInvalidRegistrationNo = "INVALID_REGISTRATION_NO"
	CodeInvalidName           = "INVALID_NAME"
	CodeInvalidDate           = "INVALID_DATE"
	CodeDuplicateRegistration = "DUPLICATE_REGISTRATION"
	CodeNoUpdatableFields     = "NO_UPDATABLE_FIELDS"
	CodeStorageUnavailable    = "STORAGE_UNAVAILABLE"
	CodeNotFound              = "NOT_FOUND"
	CodeValidationError       = "VALIDATION_ERROR"
	CodeInternalError         = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the CivicLedger core.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to
// clients to avoid leaking internal storage details (e.g. raw driver errors).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "DUPLICATE_REGISTRATION").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the caller.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code (dashboard surface only).
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Validation Failures

// InvalidRegistrationNumber creates the error for a missing or malformed
// registration number (pattern [A-Z0-9-]{3,50}).
func InvalidRegistrationNumber() *AppError {
	return &AppError{
		Code:       CodeInvalidRegistrationNo,
		Message:    "Invalid or missing registration_no",
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidName creates the error for a missing or malformed person name.
func InvalidName() *AppError {
	return &AppError{
		Code:       CodeInvalidName,
		Message:    "Invalid or missing name",
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidDate creates the error for a date field that is neither a typed
// date-time nor a parseable ISO-8601 string.
func InvalidDate(field string) *AppError {
	return &AppError{
		Code:       CodeInvalidDate,
		Message:    field + " must be an ISO date string or datetime",
		HTTPStatus: http.StatusBadRequest,
	}
}

// ValidationError creates a generic validation failure with optional
// per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidationError,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Domain Failures

// DuplicateRegistration creates the error raised when an insert collides
// with an existing registration number. This is a permanent rejection,
// never a transient condition.
func DuplicateRegistration(kind string) *AppError {
	return &AppError{
		Code:       CodeDuplicateRegistration,
		Message:    "A " + kind + " record with this registration_no already exists",
		HTTPStatus: http.StatusConflict,
	}
}

// NoUpdatableFields creates the error raised when an update payload contains
// none of the mutable fields for the record kind.
func NoUpdatableFields() *AppError {
	return &AppError{
		Code:       CodeNoUpdatableFields,
		Message:    "No updatable fields provided",
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotFound creates the error for a named resource that does not exist.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// # Infrastructure Failures

// StorageUnavailable wraps a connectivity or timeout failure of the document
// store. The cause is stored for logging but never rendered to callers.
func StorageUnavailable(cause error) *AppError {
	return &AppError{
		Code:       CodeStorageUnavailable,
		Message:    "Storage unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternalError,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsCode reports whether err carries the given machine-readable code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// IsNotFound reports whether err represents a missing resource.
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

// IsDuplicate reports whether err represents a duplicate registration number.
func IsDuplicate(err error) bool {
	return IsCode(err, CodeDuplicateRegistration)
}
