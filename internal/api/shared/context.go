package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// OwnerContextKey is the context key for the caller's warehouse credential
	OwnerContextKey ContextKey = "owner"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID adds a fresh trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, newTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// newTraceID returns a random 32-character hex id.
func newTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SetOwner stores the authenticated credential in the context.
func SetOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, OwnerContextKey, owner)
}

// GetOwner returns the authenticated credential, or false when the request
// did not pass through the auth middleware.
func GetOwner(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(OwnerContextKey).(string)
	if !ok || owner == "" {
		return "", false
	}
	return owner, true
}
