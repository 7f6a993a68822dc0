package ports

import (
	"context"
	"time"
)

// RateLimitResult describes the outcome of a single limiter check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// RateLimiter counts requests per key inside a window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitResult, error)
}
