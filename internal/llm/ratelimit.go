package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const defaultRateLimit = 60

// rateLimiter is a token bucket holding up to one minute of requests. Tokens
// are refilled from the elapsed time whenever the bucket is inspected.
type rateLimiter struct {
	last     time.Time
	now      func() time.Time
	tokens   float64
	capacity float64
	perSec   float64
	mu       sync.Mutex
}

// newRateLimiter creates a limiter allowing requestsPerMinute requests.
func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = defaultRateLimit
	}
	rl := &rateLimiter{
		now:      time.Now,
		capacity: float64(requestsPerMinute),
		tokens:   float64(requestsPerMinute),
		perSec:   float64(requestsPerMinute) / 60,
	}
	rl.last = rl.now()
	return rl
}

// wait blocks until a token is available or the context is canceled.
func (rl *rateLimiter) wait(ctx context.Context) error {
	for {
		delay, ok := rl.reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

// tryAcquire takes a token without blocking.
func (rl *rateLimiter) tryAcquire() bool {
	_, ok := rl.reserve()
	return ok
}

// reserve takes a token if one is available, otherwise it reports how long
// until the next one is.
func (rl *rateLimiter) reserve() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.tokens += now.Sub(rl.last).Seconds() * rl.perSec
	if rl.tokens > rl.capacity {
		rl.tokens = rl.capacity
	}
	rl.last = now

	if rl.tokens >= 1 {
		rl.tokens--
		return 0, true
	}
	missing := (1 - rl.tokens) / rl.perSec
	return time.Duration(missing * float64(time.Second)), false
}
