package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkpost/blog-api/internal/core/ports"
)

// slidingWindowScript trims the sorted set to the window, then admits the
// request only while the remaining count is below the limit. Returns
// {allowed, remaining, retry_after_ms}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local counter_key = KEYS[2]
local now = tonumber(ARGV[1])
local window_start = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local window_ms = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)

if count < limit then
	local seq = redis.call('INCR', counter_key)
	redis.call('ZADD', key, now, now .. ':' .. seq)
	redis.call('PEXPIRE', key, window_ms)
	redis.call('PEXPIRE', counter_key, window_ms)
	return {1, limit - count - 1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local retry_after = 0
if #oldest >= 2 then
	retry_after = tonumber(oldest[2]) + window_ms - now
end
return {0, 0, retry_after}
`)

// SlidingWindowLimiter is a Redis sorted-set sliding window. Every replica
// sharing the Redis instance sees the same counts.
type SlidingWindowLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewSlidingWindowLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (ports.RateLimitResult, error) {
	now := l.now()
	redisKey := l.prefix + key

	raw, err := slidingWindowScript.Run(ctx, l.client,
		[]string{redisKey, redisKey + ":seq"},
		now.UnixMilli(),
		now.Add(-l.window).UnixMilli(),
		l.limit,
		l.window.Milliseconds(),
	).Slice()
	if err != nil {
		return ports.RateLimitResult{}, fmt.Errorf("rate limit script: %w", err)
	}

	return l.parseResult(now, raw)
}

func (l *SlidingWindowLimiter) parseResult(now time.Time, raw []interface{}) (ports.RateLimitResult, error) {
	if len(raw) < 3 {
		return ports.RateLimitResult{}, fmt.Errorf("rate limit script: unexpected result length %d", len(raw))
	}

	vals := make([]int64, 3)
	for i := range vals {
		v, ok := raw[i].(int64)
		if !ok {
			return ports.RateLimitResult{}, fmt.Errorf("rate limit script: unexpected type %T at %d", raw[i], i)
		}
		vals[i] = v
	}

	res := ports.RateLimitResult{
		Allowed:   vals[0] == 1,
		Limit:     l.limit,
		Remaining: int(vals[1]),
		ResetAt:   now.Add(l.window),
	}
	if !res.Allowed && vals[2] > 0 {
		res.RetryAfter = time.Duration(vals[2]) * time.Millisecond
		res.ResetAt = now.Add(res.RetryAfter)
	}
	return res, nil
}
