package summarizer

import (
	"sync"
	"time"
)

// DefaultWindow is the length of one rate-limit window.
const DefaultWindow = time.Minute

// RateLimiter is a fixed-ceiling sliding window: it allows up to limit calls
// from the moment the window starts, and starts a new window once it has lasted
// a full period. It is safe for concurrent use.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	start  time.Time
	count  int
	now    func() time.Time
}

// NewRateLimiter allows limit calls per window. A limit of zero denies every call.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return newRateLimiter(limit, window, time.Now)
}

func newRateLimiter(limit int, window time.Duration, now func() time.Time) *RateLimiter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RateLimiter{
		limit:  limit,
		window: window,
		start:  now(),
		now:    now,
	}
}

// Allow reports whether a call may be made now and, if so, counts it.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.start) >= r.window {
		r.start = now
		r.count = 0
	}
	if r.count >= r.limit {
		return false
	}
	r.count++
	return true
}
