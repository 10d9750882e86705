package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter is a fixed-window token budget refilled every minute.
type TokenLimiter struct {
	sync.Mutex
	capacity     int
	remaining    int
	refillPeriod time.Duration
	lastRefill   time.Time
	pollInterval time.Duration
}

func NewTokenLimiter(tokensPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		capacity:     tokensPerMinute,
		remaining:    tokensPerMinute,
		refillPeriod: time.Minute,
		lastRefill:   time.Now(),
		pollInterval: 100 * time.Millisecond,
	}
}

// Wait blocks until tokens are available or ctx is done. Requests larger than
// the whole budget are clamped to it so they can never wait forever.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	if l.capacity <= 0 || tokens <= 0 {
		return nil
	}
	if tokens > l.capacity {
		tokens = l.capacity
	}

	for {
		l.refill()

		l.Lock()
		if l.remaining >= tokens {
			l.remaining -= tokens
			l.Unlock()
			return nil
		}
		l.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.pollInterval):
		}
	}
}

func (l *TokenLimiter) refill() {
	l.Lock()
	defer l.Unlock()

	now := time.Now()
	if now.Sub(l.lastRefill) >= l.refillPeriod {
		l.remaining = l.capacity
		l.lastRefill = now
	}
}

func (l *TokenLimiter) GetRemaining() int {
	l.Lock()
	defer l.Unlock()
	return l.remaining
}
