package cache

import (
	"context"
	"time"
)

// Cache is the store-agnostic facade every other component builds on.
// All state shared between concurrent request handlers and between process
// instances lives behind this interface; no caller may assume anything about
// the backing store beyond these operations and their TTL semantics.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get decodes the value stored under key into dest, which must be a
	// non-nil pointer. It returns false when the key does not exist or has
	// expired; absence is never an error.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set encodes value and stores it under key. The returned boolean reports
	// whether the write actually happened: it is always true for plain writes
	// and reflects the condition outcome when IfNotExists is set.
	Set(ctx context.Context, key string, value any, opts ...SetOption) (bool, error)

	// Delete removes the given keys. Deleting an absent key is not an error.
	Delete(ctx context.Context, keys ...string) error

	// Incr atomically increments the integer counter at key, creating it at
	// zero first, and returns the new value. Concurrent increments never lose
	// updates; this is delegated to the store's native increment.
	Incr(ctx context.Context, key string) (int64, error)

	// TTL returns the remaining time-to-live of key. The boolean is false
	// when the key does not exist or has no expiry.
	TTL(ctx context.Context, key string) (time.Duration, bool, error)

	// WithLock acquires the exclusive lock named by lockKey, runs fn at most
	// once while holding it, and releases the lock on every exit path.
	//
	// Acquisition is fail-fast: if another holder currently owns the lock,
	// WithLock returns ErrLockNotAcquired without running fn. The ttl bounds
	// how long an abandoned lock survives; release is conditional on the
	// ownership token written at acquisition, executed as a single atomic
	// compare-and-delete against the store.
	WithLock(ctx context.Context, lockKey string, ttl time.Duration, fn func(ctx context.Context) error) error
}

// setOptions holds resolved write options.
type setOptions struct {
	ttl          time.Duration
	onlyIfAbsent bool
}

// SetOption configures a single Set call.
type SetOption func(*setOptions)

// WithTTL bounds the lifetime of the written key. After d the key is
// guaranteed inaccessible. Without this option the key persists until
// explicitly deleted.
func WithTTL(d time.Duration) SetOption {
	return func(o *setOptions) {
		o.ttl = d
	}
}

// IfNotExists makes the write conditional: it succeeds only when the key is
// currently absent. The boolean returned by Set reports whether the write
// happened.
func IfNotExists() SetOption {
	return func(o *setOptions) {
		o.onlyIfAbsent = true
	}
}

func applySetOptions(opts []SetOption) setOptions {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
