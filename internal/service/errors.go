package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across the tracker.
// Callers check for them with errors.Is; the API layer maps them to HTTP
// status codes.
var (
	// ErrGoalNotFound indicates the user has no goal with the requested ID.
	// API layer should map this to HTTP 404 Not Found.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrInvalidEntry indicates a log entry was rejected by the record store.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidEntry = errors.New("invalid log entry")

	// ErrInvalidSettings indicates settings were rejected by the store.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidSettings = errors.New("invalid settings")
)

// ServiceError wraps errors from the tracker with the operation that
// failed. Consumers use errors.As to reach it and errors.Is to test the
// wrapped cause.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "record_entry")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
