package classifier

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRateLimit is used when SetLimit receives an out-of-range value.
const DefaultRateLimit = 10

const (
	minQueriesPerMinute = 1
	maxQueriesPerMinute = 60
)

// RateLimiter is a token bucket of capacity Q that starts full and regains
// one token every 60/Q seconds. It is not refilled to full in one step at a
// minute boundary, so more than Q calls can pass within one 60-second
// window (Q at once, then one more every 60/Q seconds). Tokens gate LM
// calls only, never cache hits.
type RateLimiter struct {
	mu      sync.RWMutex
	limit   int
	limiter *rate.Limiter
}

// NewRateLimiter builds a RateLimiter with capacity n, clamped to
// [1, 60] with a default of 10 for anything outside that range.
func NewRateLimiter(n int) *RateLimiter {
	n = normalizeLimit(n)
	return &RateLimiter{
		limit:   n,
		limiter: newTokenBucket(n),
	}
}

func normalizeLimit(n int) int {
	if n < minQueriesPerMinute || n > maxQueriesPerMinute {
		return DefaultRateLimit
	}
	return n
}

func newTokenBucket(n int) *rate.Limiter {
	// burst == capacity, and tokens come back one at a time at a steady
	// rate of n per minute (one every 60/n seconds).
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
}

// GetLimit returns the currently configured capacity.
func (r *RateLimiter) GetLimit() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.limit
}

// SetLimit reconfigures the bucket's capacity, defaulting out-of-range
// values to DefaultRateLimit.
func (r *RateLimiter) SetLimit(n int) {
	n = normalizeLimit(n)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limit = n
	r.limiter = newTokenBucket(n)
}

// Wait blocks until one token is available or ctx is done. It never
// acquires more than one token per call, matching "acquire one
// rate-limiter token (blocking)" in spec.md §4.3.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.RLock()
	l := r.limiter
	r.mu.RUnlock()
	return l.Wait(ctx)
}
