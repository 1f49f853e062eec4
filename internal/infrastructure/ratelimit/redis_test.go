package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T, max int, period time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	limiter := NewRedisLimiter(mr.Addr(), max, period)
	t.Cleanup(func() { limiter.Close() })
	return limiter, mr
}

func TestRedisLimiter_AllowsUpToMax(t *testing.T) {
	limiter, _ := newRedisLimiter(t, 10, time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		allowed, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisLimiter_WindowExpires(t *testing.T) {
	limiter, mr := newRedisLimiter(t, 1, time.Minute)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, allowed)

	mr.FastForward(61 * time.Second)

	allowed, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiter_BackendDownReturnsError(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := NewRedisLimiter(mr.Addr(), 10, time.Minute)
	t.Cleanup(func() { limiter.Close() })
	mr.Close()

	_, err := limiter.Allow(context.Background(), "1.2.3.4")
	assert.Error(t, err)
}
