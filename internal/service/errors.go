package service

import (
	"errors"
	"fmt"

	"github.com/apridachin/girya-storekeeper/internal/task"
)

// Common service errors. The API layer maps them to HTTP status codes.
var (
	// ErrQueueFull indicates that the runner cannot accept another search.
	// API layer should map this to HTTP 503 Service Unavailable.
	ErrQueueFull = task.ErrQueueFull

	// ErrMissingCredential indicates a call without a warehouse credential.
	ErrMissingCredential = errors.New("warehouse credential is required")

	// ErrNilDependency is wrapped by constructor failures.
	ErrNilDependency = errors.New("required dependency is nil")
)

// ServiceError wraps an unexpected failure with the operation it came from.
type ServiceError struct {
	// Operation is the operation that failed (e.g. "submit_search")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err unless it is nil.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
