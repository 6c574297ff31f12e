package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyProductGroupID is returned when a stock search is requested
	// without a product group.
	ErrEmptyProductGroupID = errors.New("product group ID cannot be empty")
)
