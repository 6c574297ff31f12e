// Package warehouse is the client for the warehouse REST API.
//
// Every request passes through a per-client rate limiter that tracks the
// quota advertised in response headers. When the quota is exhausted the
// calling goroutine is suspended until the advertised window passes, and a
// throttled (429) response is retried after the cooldown instead of being
// surfaced to the caller. Limiter state belongs to one Client and is never
// shared between instances.
package warehouse
