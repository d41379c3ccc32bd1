package layer

import (
	"time"

	"github.com/banshee-data/mapcluster/internal/config"
)

// DefaultThrottle is the minimum interval between executed recomputes.
const DefaultThrottle = config.DefaultThrottle

// RateLimiter is a leading-edge throttle. A call is allowed when no call has
// run yet or at least interval has passed since the last executed call.
// Rejected calls are not queued.
type RateLimiter struct {
	interval time.Duration
	last     time.Time
	ran      bool
}

// NewRateLimiter creates a RateLimiter. A non-positive interval allows every call.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{interval: interval}
}

// ShouldRun reports whether a call at now is allowed.
func (r *RateLimiter) ShouldRun(now time.Time) bool {
	if !r.ran || r.interval <= 0 {
		return true
	}
	return now.Sub(r.last) >= r.interval
}

// MarkRun records that a call executed at now.
func (r *RateLimiter) MarkRun(now time.Time) {
	r.last = now
	r.ran = true
}

// Interval returns the configured interval.
func (r *RateLimiter) Interval() time.Duration {
	return r.interval
}
