package cache

import "errors"

var (
	// ErrLockNotAcquired is returned by WithLock when another holder currently
	// owns the lock. It is distinct from any transport failure so callers can
	// tell "contended" apart from "store unavailable".
	ErrLockNotAcquired = errors.New("cache: lock not acquired")

	// ErrTransport wraps failures to reach the backing store. The facade never
	// retries internally; retry policy belongs to the caller.
	ErrTransport = errors.New("cache: transport failure")
)
