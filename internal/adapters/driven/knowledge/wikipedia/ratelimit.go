package wikipedia

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRate is the default request rate per second.
	DefaultRate = 5.0

	// DefaultBurst is the default token bucket size.
	DefaultBurst = 5

	// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter throttles requests proactively with a token bucket and
// reactively with pauses requested by the server.
type RateLimiter struct {
	mu          sync.Mutex
	bucket      *rate.Limiter
	pausedUntil time.Time
	now         func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		rps = DefaultRate
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(rps), burst),
		now:    time.Now,
	}
}

// Wait blocks until a request may be sent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	pause := r.pausedUntil.Sub(r.now())
	r.mu.Unlock()

	if pause > 0 {
		timer := time.NewTimer(pause)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.bucket.Wait(ctx)
}

// Pause holds back every request for d.
func (r *RateLimiter) Pause(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if until := r.now().Add(d); until.After(r.pausedUntil) {
		r.pausedUntil = until
	}
}

// PausedUntil returns the end of the current server-requested pause.
func (r *RateLimiter) PausedUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pausedUntil
}

// retryAfter parses the Retry-After header of resp.
func retryAfter(resp *http.Response, now time.Time) time.Duration {
	if resp == nil {
		return 0
	}
	value := resp.Header.Get(HeaderRetryAfter)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		return at.Sub(now)
	}
	return 0
}
