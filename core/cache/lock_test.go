package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/core/core/cache"
)

func TestMemory_WithLock(t *testing.T) {
	t.Parallel()

	t.Run("runs critical section and releases", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		ctx := context.Background()

		ran := false
		err := c.WithLock(ctx, "lock", time.Second, func(ctx context.Context) error {
			ran = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, ran)

		// Released: a second acquisition succeeds immediately.
		err = c.WithLock(ctx, "lock", time.Second, func(ctx context.Context) error { return nil })
		require.NoError(t, err)
	})

	t.Run("propagates critical section error and still releases", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		ctx := context.Background()
		boom := errors.New("boom")

		err := c.WithLock(ctx, "lock", time.Second, func(ctx context.Context) error { return boom })
		require.ErrorIs(t, err, boom)

		err = c.WithLock(ctx, "lock", time.Second, func(ctx context.Context) error { return nil })
		require.NoError(t, err)
	})

	t.Run("contended lock fails fast", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		ctx := context.Background()

		entered := make(chan struct{})
		release := make(chan struct{})

		go func() {
			_ = c.WithLock(ctx, "lock", time.Minute, func(ctx context.Context) error {
				close(entered)
				<-release
				return nil
			})
		}()

		<-entered
		err := c.WithLock(ctx, "lock", time.Minute, func(ctx context.Context) error {
			t.Error("second critical section must not run while held")
			return nil
		})
		assert.ErrorIs(t, err, cache.ErrLockNotAcquired)
		close(release)
	})

	t.Run("exactly one of two concurrent holders runs", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		ctx := context.Background()

		var ran, contended int
		var mu sync.Mutex
		var wg sync.WaitGroup
		start := make(chan struct{})

		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				err := c.WithLock(ctx, "slot", time.Minute, func(ctx context.Context) error {
					mu.Lock()
					ran++
					mu.Unlock()
					time.Sleep(20 * time.Millisecond)
					return nil
				})
				if errors.Is(err, cache.ErrLockNotAcquired) {
					mu.Lock()
					contended++
					mu.Unlock()
				}
			}()
		}

		close(start)
		wg.Wait()

		assert.Equal(t, 1, ran, "exactly one critical section must run")
		assert.Equal(t, 1, contended, "the loser must see ErrLockNotAcquired")
	})

	t.Run("release after expiry does not steal a re-acquired lock", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		ctx := context.Background()

		reacquired := make(chan struct{})

		err := c.WithLock(ctx, "lock", 20*time.Millisecond, func(ctx context.Context) error {
			// Outlive our own TTL, then let a second holder take the key
			// before this call's deferred release runs.
			time.Sleep(50 * time.Millisecond)

			go func() {
				_ = c.WithLock(ctx, "lock", time.Minute, func(ctx context.Context) error {
					close(reacquired)
					return nil
				})
			}()
			<-reacquired
			return nil
		})
		require.NoError(t, err)
	})
}

// TestMemory_WithLock_OwnershipSurvivesStaleRelease pins the compare-and-delete
// contract: after a slow holder's lock expired and was re-acquired, the slow
// holder's release must leave the new holder's lock in place.
func TestMemory_WithLock_OwnershipSurvivesStaleRelease(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory()
	ctx := context.Background()

	secondHolding := make(chan struct{})
	secondRelease := make(chan struct{})
	secondDone := make(chan error, 1)

	err := c.WithLock(ctx, "lock", 20*time.Millisecond, func(ctx context.Context) error {
		time.Sleep(50 * time.Millisecond) // let our lock expire mid-section

		go func() {
			secondDone <- c.WithLock(ctx, "lock", time.Minute, func(ctx context.Context) error {
				close(secondHolding)
				<-secondRelease
				return nil
			})
		}()
		<-secondHolding
		return nil
	})
	require.NoError(t, err)

	// The first holder has returned, so its conditional release has run.
	// The second holder's lock must still be protecting the key.
	err = c.WithLock(ctx, "lock", time.Minute, func(ctx context.Context) error {
		t.Error("critical section ran while the second holder still owns the lock")
		return nil
	})
	assert.ErrorIs(t, err, cache.ErrLockNotAcquired)

	close(secondRelease)
	require.NoError(t, <-secondDone)
}
