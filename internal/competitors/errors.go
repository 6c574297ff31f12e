package competitors

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery is returned when Search is called without a query.
	ErrEmptyQuery = errors.New("search query cannot be empty")

	// ErrTransportClosed marks driver errors caused by a dead browser or
	// connection. Drivers wrap their errors with it so the session can
	// recover by relaunching.
	ErrTransportClosed = errors.New("browser transport closed")

	// ErrSearchFailed is matched by every per-query SearchError.
	ErrSearchFailed = errors.New("competitor search failed")

	// ErrNoCandidate is returned when the page yields no product with a name.
	ErrNoCandidate = errors.New("no matching product on the page")
)

// SearchError is a soft, per-query failure.
type SearchError struct {
	Query string
	Err   error
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("%s for %q: %v", ErrSearchFailed, e.Query, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SearchError) Unwrap() error {
	return e.Err
}

// Is makes every SearchError match ErrSearchFailed.
func (e *SearchError) Is(target error) bool {
	return target == ErrSearchFailed
}
