package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RequestLimiter paces outbound requests per oracle. Every oracle gets its
// own per-minute budget so a burst of price lookups cannot starve
// classification.
type RequestLimiter struct {
	mu               sync.Mutex
	limiters         map[string]*rate.Limiter
	perMinute        map[string]int
	defaultPerMinute int
}

// NewRequestLimiter builds a limiter allowing defaultPerMinute requests per
// oracle. overrides replaces the budget for single oracles; non-positive
// overrides are ignored. A non-positive budget means unlimited.
func NewRequestLimiter(defaultPerMinute int, overrides map[string]int) *RequestLimiter {
	perMinute := make(map[string]int, len(overrides))
	for oracle, n := range overrides {
		if n > 0 {
			perMinute[oracle] = n
		}
	}
	return &RequestLimiter{
		limiters:         make(map[string]*rate.Limiter),
		perMinute:        perMinute,
		defaultPerMinute: defaultPerMinute,
	}
}

// Wait blocks until oracle may send one more request or ctx is done.
func (l *RequestLimiter) Wait(ctx context.Context, oracle string) error {
	return l.limiter(oracle).Wait(ctx)
}

// Budget returns the requests per minute applied to oracle, 0 when unlimited.
func (l *RequestLimiter) Budget(oracle string) int {
	if n, ok := l.perMinute[oracle]; ok {
		return n
	}
	if l.defaultPerMinute > 0 {
		return l.defaultPerMinute
	}
	return 0
}

func (l *RequestLimiter) limiter(oracle string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters[oracle]; ok {
		return limiter
	}

	every := rate.Inf
	if n := l.Budget(oracle); n > 0 {
		every = rate.Every(time.Minute / time.Duration(n))
	}
	limiter := rate.NewLimiter(every, 1)
	l.limiters[oracle] = limiter
	return limiter
}
