package warehouse

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Rate limit headers sent by the warehouse API.
const (
	headerRemaining     = "X-RateLimit-Remaining"
	headerLimit         = "X-RateLimit-Limit"
	headerRetryInterval = "X-Lognex-Retry-TimeInterval"
	headerRetryAfter    = "X-Lognex-Retry-After"
	headerStdRetryAfter = "Retry-After"
)

// defaultRetryAfter applies when a 429 carries no retry header.
const defaultRetryAfter = 5 * time.Second

// unknownRemaining means no quota information has been received yet.
const unknownRemaining = -1

// RateLimiterState is a snapshot of the quota advertised by the warehouse.
type RateLimiterState struct {
	Remaining     int
	Limit         int
	RetryInterval time.Duration
	NextAllowed   time.Time
}

type limiter struct {
	mu    sync.Mutex
	state RateLimiterState
	// cooldownUntil is set only by throttle. No request is released before
	// it, whatever quota later responses advertise.
	cooldownUntil time.Time
	now           func() time.Time
	sleep         func(context.Context, time.Duration) error
}

func newLimiter(now func() time.Time, sleep func(context.Context, time.Duration) error) *limiter {
	return &limiter{
		state: RateLimiterState{Remaining: unknownRemaining},
		now:   now,
		sleep: sleep,
	}
}

// acquire blocks until one request may be sent and reserves it.
func (l *limiter) acquire(ctx context.Context) error {
	return l.wait(ctx, 1, true)
}

// headroom blocks until n requests fit in the current quota without reserving them.
func (l *limiter) headroom(ctx context.Context, n int) error {
	return l.wait(ctx, n, false)
}

func (l *limiter) wait(ctx context.Context, n int, reserve bool) error {
	for {
		l.mu.Lock()
		delay := l.delayLocked(n)
		if delay <= 0 {
			if reserve && l.state.Remaining > 0 {
				l.state.Remaining--
			}
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		if err := l.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// delayLocked returns how long a caller needing n requests must wait.
// Must be called with l.mu held.
func (l *limiter) delayLocked(n int) time.Duration {
	now := l.now()
	if now.Before(l.cooldownUntil) {
		return l.cooldownUntil.Sub(now)
	}

	s := &l.state
	if s.Remaining == unknownRemaining || s.Remaining >= n {
		return 0
	}

	if now.Before(s.NextAllowed) {
		return s.NextAllowed.Sub(now)
	}
	if s.NextAllowed.IsZero() && s.RetryInterval > 0 {
		s.NextAllowed = now.Add(s.RetryInterval)
		return s.RetryInterval
	}

	// The window has rolled over; fresh headers will tell the real quota.
	s.Remaining = unknownRemaining
	s.NextAllowed = time.Time{}
	return 0
}

// update records the quota advertised by a response. While a cooldown is
// active, responses to requests sent before the 429 cannot raise the quota
// or move the next allowed time earlier.
func (l *limiter) update(h http.Header) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cooling := l.now().Before(l.cooldownUntil)
	if v, ok := headerInt(h, headerRemaining); ok && (!cooling || v < l.state.Remaining) {
		l.state.Remaining = v
	}
	if v, ok := headerInt(h, headerLimit); ok {
		l.state.Limit = v
	}
	if v, ok := headerInt(h, headerRetryInterval); ok {
		l.state.RetryInterval = time.Duration(v) * time.Millisecond
	}
	if d, ok := retryAfter(h); ok {
		next := l.now().Add(d)
		if !cooling || next.After(l.state.NextAllowed) {
			l.state.NextAllowed = next
		}
	}
}

// throttle records a 429 response and returns the cooldown applied.
func (l *limiter) throttle(h http.Header) time.Duration {
	l.update(h)

	l.mu.Lock()
	defer l.mu.Unlock()

	d, ok := retryAfter(h)
	if !ok {
		d = defaultRetryAfter
	}
	until := l.now().Add(d)
	if until.After(l.cooldownUntil) {
		l.cooldownUntil = until
	}
	l.state.Remaining = 0
	l.state.NextAllowed = l.cooldownUntil
	return d
}

func (l *limiter) snapshot() RateLimiterState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// retryAfter prefers the millisecond vendor header over the standard one in seconds.
func retryAfter(h http.Header) (time.Duration, bool) {
	if v, ok := headerInt(h, headerRetryAfter); ok {
		return time.Duration(v) * time.Millisecond, true
	}
	if v, ok := headerInt(h, headerStdRetryAfter); ok {
		return time.Duration(v) * time.Second, true
	}
	return 0, false
}

func headerInt(h http.Header, name string) (int, bool) {
	raw := h.Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
