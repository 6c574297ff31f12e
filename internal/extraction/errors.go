package extraction

import (
	"errors"
	"fmt"
)

// Common errors returned by the extraction package
var (
	// ErrParsing is matched by every extraction failure. Callers do not
	// distinguish transport failures from malformed or off-schema output.
	ErrParsing = errors.New("failed to extract structured data from markup")

	// ErrEmptyResponse is returned by completers when the model produced no text.
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrContentBlocked is returned by completers when the provider refused the prompt.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when a completer is configured incorrectly.
	ErrInvalidConfig = errors.New("invalid extraction configuration")
)

// ParsingError describes which shape could not be extracted and why.
type ParsingError struct {
	Shape string
	Err   error
}

// Error implements the error interface.
func (e *ParsingError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrParsing, e.Shape, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParsingError) Unwrap() error {
	return e.Err
}

// Is makes every ParsingError match ErrParsing.
func (e *ParsingError) Is(target error) bool {
	return target == ErrParsing
}
