package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glowdesk/core/core/cache"
)

var (
	// ErrCacheRequired is returned by New when no cache facade is provided.
	ErrCacheRequired = errors.New("ratelimiter: cache facade is required")

	// ErrInvalidConfig is returned by New when the limit or window is not positive.
	ErrInvalidConfig = errors.New("ratelimiter: limit and window must be positive")
)

const keyPrefix = "ratelimit:"

// Config defines a fixed-window limit: at most Limit requests per Window.
type Config struct {
	Limit  int64         `env:"RATE_LIMIT_MAX" envDefault:"60"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// Result reports the outcome of a single Allow call.
type Result struct {
	Allowed    bool
	Remaining  int64         // requests left in the current window
	RetryAfter time.Duration // time until the next window opens; zero when allowed
}

// Limiter counts requests per key in fixed windows over the cache facade.
type Limiter struct {
	cache cache.Cache
	cfg   Config
	now   func() time.Time
}

// Option configures the Limiter.
type Option func(*Limiter)

// WithNow overrides the time source. Used in tests to pin window boundaries.
func WithNow(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a limiter over the given cache facade.
func New(c cache.Cache, cfg Config, opts ...Option) (*Limiter, error) {
	if c == nil {
		return nil, ErrCacheRequired
	}
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		return nil, ErrInvalidConfig
	}

	l := &Limiter{
		cache: c,
		cfg:   cfg,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Allow records one request for key and reports whether it fits in the
// current window.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now()
	window := now.UnixNano() / int64(l.cfg.Window)
	counterKey := fmt.Sprintf("%s%s:%d", keyPrefix, key, window)

	// Seed the counter with a TTL before incrementing. The conditional write
	// makes sure the window's entry always expires even though the increment
	// itself cannot attach one; the extra second covers clock skew between
	// instances.
	if _, err := l.cache.Set(ctx, counterKey, 0,
		cache.WithTTL(l.cfg.Window+time.Second), cache.IfNotExists()); err != nil {
		return Result{}, err
	}

	count, err := l.cache.Incr(ctx, counterKey)
	if err != nil {
		return Result{}, err
	}

	windowEnd := time.Unix(0, (window+1)*int64(l.cfg.Window))

	if count > l.cfg.Limit {
		return Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: windowEnd.Sub(now),
		}, nil
	}

	return Result{
		Allowed:   true,
		Remaining: l.cfg.Limit - count,
	}, nil
}
