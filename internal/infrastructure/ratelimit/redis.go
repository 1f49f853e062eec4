package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter shared across instances. The first
// request in a window creates the counter and sets its expiry; subsequent
// requests increment it until the cap is reached.
type RedisLimiter struct {
	client *redis.Client
	max    int
	period time.Duration
}

// NewRedisLimiter creates a limiter backed by the Redis instance at addr.
func NewRedisLimiter(addr string, max int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		max:    max,
		period: period,
	}
}

// Allow increments the client's window counter and checks it against the cap.
func (l *RedisLimiter) Allow(ctx context.Context, clientID string) (bool, error) {
	key := "ratelimit:" + clientID

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.period).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window expiry: %w", err)
		}
	}

	return count <= int64(l.max), nil
}

// Close releases the underlying Redis connection pool.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

// NewLimiter selects the Redis-backed limiter when an address is configured
// and falls back to the in-process limiter otherwise.
func NewLimiter(redisAddr string, max int, period time.Duration) Limiter {
	if redisAddr != "" {
		return NewRedisLimiter(redisAddr, max, period)
	}
	return NewMemoryLimiter(max, period)
}
