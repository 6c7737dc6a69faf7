package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryEntry is a single stored value. A zero expiresAt means no expiry.
type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Memory implements Cache with a mutex-guarded in-process map. It exists for
// tests and single-process development; it honors the same TTL-expiry,
// atomic-increment, and compare-and-delete contracts as the Redis
// implementation, with the store mutex standing in for server-side atomicity.
//
// Expired entries are reaped lazily on access.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	logger  *slog.Logger
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithMemoryLogger sets the logger for internal, non-fatal events.
func WithMemoryLogger(logger *slog.Logger) MemoryOption {
	return func(m *Memory) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMemory creates an in-memory cache facade.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// lookup returns the live entry for key, reaping it first if expired.
// Callers must hold m.mu.
func (m *Memory) lookup(key string, now time.Time) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if e.expired(now) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

// Get decodes the value stored under key into dest.
func (m *Memory) Get(ctx context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	e, ok := m.lookup(key, time.Now())
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.raw, dest); err != nil {
		return false, fmt.Errorf("cache: decode value at %q: %w", key, err)
	}
	return true, nil
}

// Set encodes value and stores it under key.
func (m *Memory) Set(ctx context.Context, key string, value any, opts ...SetOption) (bool, error) {
	o := applySetOptions(opts)

	raw, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("cache: encode value for %q: %w", key, err)
	}

	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if o.onlyIfAbsent {
		if _, exists := m.lookup(key, now); exists {
			return false, nil
		}
	}

	e := memoryEntry{raw: raw}
	if o.ttl > 0 {
		e.expiresAt = now.Add(o.ttl)
	}
	m.entries[key] = e
	return true, nil
}

// Delete removes the given keys. Missing keys are ignored.
func (m *Memory) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

// Incr atomically increments the counter at key and returns the new value.
func (m *Memory) Incr(ctx context.Context, key string) (int64, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	e, ok := m.lookup(key, now)
	if ok {
		parsed, err := strconv.ParseInt(string(e.raw), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cache: value at %q is not an integer: %w", key, err)
		}
		n = parsed
	}
	n++

	// Incrementing preserves a previously set expiry, matching Redis INCR.
	e.raw = []byte(strconv.FormatInt(n, 10))
	m.entries[key] = e
	return n, nil
}

// TTL reports the remaining time-to-live of key.
func (m *Memory) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(key, now)
	if !ok || e.expiresAt.IsZero() {
		return 0, false, nil
	}
	return e.expiresAt.Sub(now), true, nil
}

// WithLock acquires lockKey under a fresh ownership token, runs fn, and
// conditionally releases the lock. The ownership check and the delete happen
// under the store mutex, making them atomic relative to all other operations
// on the key.
func (m *Memory) WithLock(ctx context.Context, lockKey string, ttl time.Duration, fn func(ctx context.Context) error) error {
	token := uuid.NewString()

	acquired, err := m.Set(ctx, lockKey, token, WithTTL(ttl), IfNotExists())
	if err != nil {
		return err
	}
	if !acquired {
		return ErrLockNotAcquired
	}

	defer func() {
		now := time.Now()

		m.mu.Lock()
		defer m.mu.Unlock()

		e, ok := m.lookup(lockKey, now)
		if !ok {
			m.logger.Warn("cache: lock release skipped, ownership lost",
				slog.String("lock_key", lockKey))
			return
		}

		var holder string
		if err := json.Unmarshal(e.raw, &holder); err != nil || holder != token {
			m.logger.Warn("cache: lock release skipped, ownership lost",
				slog.String("lock_key", lockKey))
			return
		}
		delete(m.entries, lockKey)
	}()

	return fn(ctx)
}
