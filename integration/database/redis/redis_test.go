package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/glowdesk/core/integration/database/redis"
)

func TestConnect_URLValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(ctx, redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(ctx, redis.Config{ConnectionURL: "http://localhost:6379"})
		assert.ErrorIs(t, err, redis.ErrInvalidURLScheme)
	})

	t.Run("unparsable URL", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(ctx, redis.Config{ConnectionURL: "redis://user:pass:extra@host"})
		assert.ErrorIs(t, err, redis.ErrParseConnectionURL)
	})
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Port 1 is never a Redis server; a single fast attempt must fail with
	// the not-ready kind rather than hanging.
	_, err := redis.Connect(ctx, redis.Config{
		ConnectionURL:  "redis://127.0.0.1:1/0",
		RetryAttempts:  1,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: 2 * time.Second,
	})
	assert.ErrorIs(t, err, redis.ErrNotReady)
}
