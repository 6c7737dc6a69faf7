package ratelimiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/core/core/cache"
	"github.com/glowdesk/core/pkg/ratelimiter"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires a cache facade", func(t *testing.T) {
		t.Parallel()

		_, err := ratelimiter.New(nil, ratelimiter.Config{Limit: 1, Window: time.Second})
		assert.ErrorIs(t, err, ratelimiter.ErrCacheRequired)
	})

	t.Run("rejects non-positive limit or window", func(t *testing.T) {
		t.Parallel()

		_, err := ratelimiter.New(cache.NewMemory(), ratelimiter.Config{Limit: 0, Window: time.Second})
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

		_, err = ratelimiter.New(cache.NewMemory(), ratelimiter.Config{Limit: 5, Window: 0})
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	})
}

func TestLimiter_Allow(t *testing.T) {
	t.Parallel()

	// Pinning the clock keeps every request inside one window.
	frozen := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return frozen }

	t.Run("admits up to the limit, then denies", func(t *testing.T) {
		t.Parallel()

		limiter, err := ratelimiter.New(cache.NewMemory(),
			ratelimiter.Config{Limit: 3, Window: time.Minute},
			ratelimiter.WithNow(now))
		require.NoError(t, err)
		ctx := context.Background()

		for i := range 3 {
			res, err := limiter.Allow(ctx, "203.0.113.9")
			require.NoError(t, err)
			assert.True(t, res.Allowed, "request %d should be admitted", i+1)
			assert.Equal(t, int64(2-i), res.Remaining)
		}

		res, err := limiter.Allow(ctx, "203.0.113.9")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Zero(t, res.Remaining)
		assert.Greater(t, res.RetryAfter, time.Duration(0))
		assert.LessOrEqual(t, res.RetryAfter, time.Minute)
	})

	t.Run("keys are limited independently", func(t *testing.T) {
		t.Parallel()

		limiter, err := ratelimiter.New(cache.NewMemory(),
			ratelimiter.Config{Limit: 1, Window: time.Minute},
			ratelimiter.WithNow(now))
		require.NoError(t, err)
		ctx := context.Background()

		res, err := limiter.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, res.Allowed)

		res, err = limiter.Allow(ctx, "b")
		require.NoError(t, err)
		assert.True(t, res.Allowed)

		res, err = limiter.Allow(ctx, "a")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
	})

	t.Run("a new window resets the count", func(t *testing.T) {
		t.Parallel()

		current := frozen
		var mu sync.Mutex
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return current
		}

		limiter, err := ratelimiter.New(cache.NewMemory(),
			ratelimiter.Config{Limit: 1, Window: time.Minute},
			ratelimiter.WithNow(clock))
		require.NoError(t, err)
		ctx := context.Background()

		res, err := limiter.Allow(ctx, "k")
		require.NoError(t, err)
		require.True(t, res.Allowed)

		res, err = limiter.Allow(ctx, "k")
		require.NoError(t, err)
		require.False(t, res.Allowed)

		mu.Lock()
		current = current.Add(time.Minute)
		mu.Unlock()

		res, err = limiter.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("concurrent requests never exceed the limit", func(t *testing.T) {
		t.Parallel()

		const limit = 10
		const requests = 40

		limiter, err := ratelimiter.New(cache.NewMemory(),
			ratelimiter.Config{Limit: limit, Window: time.Minute},
			ratelimiter.WithNow(now))
		require.NoError(t, err)
		ctx := context.Background()

		var allowed int64
		var mu sync.Mutex
		var wg sync.WaitGroup

		wg.Add(requests)
		for range requests {
			go func() {
				defer wg.Done()
				res, err := limiter.Allow(ctx, "k")
				assert.NoError(t, err)
				if res.Allowed {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(limit), allowed)
	})
}
