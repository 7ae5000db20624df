// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the receipt composition workflow
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"

	// Validation errors (400) - local, pre-submit, never sent to the network
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// Collaborator errors - recoverable by retry or correcting input
	CodeFetch  = "FETCH_ERROR"  // a read collaborator call failed or returned a malformed shape
	CodeSubmit = "SUBMIT_ERROR" // the create-receipt call failed

	// State machine violations (409)
	CodeConflict = "CONFLICT"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// Validation reasons surfaced by the pre-submit gate.
const (
	ReasonSupplierRequired = "supplier_required"
	ReasonNoItems          = "no_items"
	ReasonInvalidItem      = "invalid_item"
)

// AppError is the standard error type for the service.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (failing rule, item index, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400).
// The reason is one of the Reason* constants and doubles as the message
// so callers can match on it directly.
func NewValidation(reason string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    reason,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidInput creates an error for malformed request input (400)
func NewInvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewFetch creates an error for a failed read collaborator call (502).
// Non-fatal: state does not advance, the user may retry.
func NewFetch(message string) *AppError {
	return &AppError{
		Code:       CodeFetch,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewSubmit creates an error for a failed create-receipt call (502).
// The reason string from the backend is opaque and only displayed.
func NewSubmit(reason string) *AppError {
	return &AppError{
		Code:       CodeSubmit,
		Message:    reason,
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewConflict creates a state machine violation error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsValidation checks if error is a validation error with the given reason.
func IsValidation(err error, reason string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeValidation && appErr.Message == reason
	}
	return false
}

// IsFetch checks if error is CodeFetch
func IsFetch(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeFetch
	}
	return false
}

// IsSubmit checks if error is CodeSubmit
func IsSubmit(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeSubmit
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}
