package warehouse

import (
	"errors"
	"fmt"
)

// Common errors that can be returned by the warehouse client.
var (
	// ErrProductNotFound indicates that a product search returned no rows.
	ErrProductNotFound = errors.New("product not found")

	// ErrRateLimited marks a throttled response. It is retried internally
	// and only appears in logs.
	ErrRateLimited = errors.New("warehouse rate limit exceeded")

	// ErrInvalidConfig indicates that the client was constructed with
	// missing or malformed settings.
	ErrInvalidConfig = errors.New("invalid warehouse client configuration")
)

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 512

// APIError is returned for any non-429 response with status >= 400.
type APIError struct {
	Status int
	Method string
	Path   string
	Body   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("warehouse %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// IsAuth reports whether the warehouse rejected the credential.
func (e *APIError) IsAuth() bool {
	return e.Status == 401 || e.Status == 403
}
