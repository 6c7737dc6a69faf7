package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/glowdesk/core/core/cache"
)

var (
	// ErrDuplicate is returned when the operation already completed for this
	// key inside the retention window.
	ErrDuplicate = errors.New("idempotency: duplicate operation")

	// ErrInFlight is returned when another caller is currently executing the
	// operation for this key.
	ErrInFlight = errors.New("idempotency: operation in flight")

	// ErrCacheRequired is returned by NewGuard when no cache facade is provided.
	ErrCacheRequired = errors.New("idempotency: cache facade is required")
)

const (
	defaultRetention = time.Minute
	defaultLockTTL   = 10 * time.Second
	keyPrefix        = "idempotency:"
)

// Guard enforces at-most-once execution per key across process instances.
type Guard struct {
	cache     cache.Cache
	retention time.Duration
	lockTTL   time.Duration
}

// Option configures the Guard.
type Option func(*Guard)

// WithRetention sets how long a completed key rejects duplicates.
func WithRetention(d time.Duration) Option {
	return func(g *Guard) {
		if d > 0 {
			g.retention = d
		}
	}
}

// WithLockTTL bounds how long the per-key execution lock survives an
// abandoned holder. Size it against the slowest expected operation.
func WithLockTTL(d time.Duration) Option {
	return func(g *Guard) {
		if d > 0 {
			g.lockTTL = d
		}
	}
}

// NewGuard creates an idempotency guard over the given cache facade.
func NewGuard(c cache.Cache, opts ...Option) (*Guard, error) {
	if c == nil {
		return nil, ErrCacheRequired
	}

	g := &Guard{
		cache:     c,
		retention: defaultRetention,
		lockTTL:   defaultLockTTL,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Do executes fn at most once for key per retention window. Callers racing on
// the same key see ErrInFlight; callers arriving after completion see
// ErrDuplicate. Errors from fn propagate unchanged and leave no completion
// marker.
func (g *Guard) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	markerKey := keyPrefix + key

	err := g.cache.WithLock(ctx, markerKey+":lock", g.lockTTL, func(ctx context.Context) error {
		var done bool
		if found, err := g.cache.Get(ctx, markerKey, &done); err != nil {
			return err
		} else if found {
			return ErrDuplicate
		}

		if err := fn(ctx); err != nil {
			return err
		}

		_, err := g.cache.Set(ctx, markerKey, true, cache.WithTTL(g.retention))
		return err
	})

	if errors.Is(err, cache.ErrLockNotAcquired) {
		return ErrInFlight
	}
	return err
}
