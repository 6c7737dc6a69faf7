package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes a lock key only when it still holds the ownership
// token of the releasing caller. The check and the delete execute server-side
// as one atomic step, closing the time-of-check/time-of-use gap a client-side
// get-then-delete would leave open.
var releaseScript = redis.NewScript(
	`if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`,
)

// Redis implements Cache on top of a go-redis client. Values are stored as
// JSON except counters, which use Redis' native integer representation.
type Redis struct {
	rdb    redis.UniversalClient
	logger *slog.Logger
}

// RedisOption configures a Redis cache.
type RedisOption func(*Redis)

// WithRedisLogger sets the logger for internal, non-fatal events such as
// skipped lock releases.
func WithRedisLogger(logger *slog.Logger) RedisOption {
	return func(r *Redis) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRedis creates a Redis-backed cache facade.
func NewRedis(rdb redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{
		rdb:    rdb,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Get decodes the JSON value stored under key into dest.
func (r *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Join(ErrTransport, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache: decode value at %q: %w", key, err)
	}
	return true, nil
}

// Set encodes value as JSON and stores it under key.
func (r *Redis) Set(ctx context.Context, key string, value any, opts ...SetOption) (bool, error) {
	o := applySetOptions(opts)

	raw, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("cache: encode value for %q: %w", key, err)
	}

	if o.onlyIfAbsent {
		ok, err := r.rdb.SetNX(ctx, key, raw, o.ttl).Result()
		if err != nil {
			return false, errors.Join(ErrTransport, err)
		}
		return ok, nil
	}

	if err := r.rdb.Set(ctx, key, raw, o.ttl).Err(); err != nil {
		return false, errors.Join(ErrTransport, err)
	}
	return true, nil
}

// Delete removes the given keys. Missing keys are ignored.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return errors.Join(ErrTransport, err)
	}
	return nil
}

// Incr atomically increments the counter at key and returns the new value.
func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	n, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, errors.Join(ErrTransport, err)
	}
	return n, nil
}

// TTL reports the remaining time-to-live of key.
func (r *Redis) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	d, err := r.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, false, errors.Join(ErrTransport, err)
	}
	// go-redis maps the -2 (no key) and -1 (no expiry) replies to negative durations.
	if d < 0 {
		return 0, false, nil
	}
	return d, true, nil
}

// WithLock acquires lockKey under a fresh ownership token, runs fn, and
// conditionally releases the lock via an atomic compare-and-delete.
func (r *Redis) WithLock(ctx context.Context, lockKey string, ttl time.Duration, fn func(ctx context.Context) error) error {
	token := uuid.NewString()

	acquired, err := r.rdb.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return errors.Join(ErrTransport, err)
	}
	if !acquired {
		return ErrLockNotAcquired
	}

	defer func() {
		// The release must not inherit the caller's cancellation: the lock has
		// to go away even when fn failed due to a cancelled context.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		released, err := releaseScript.Run(releaseCtx, r.rdb, []string{lockKey}, token).Int()
		if err != nil {
			r.logger.ErrorContext(releaseCtx, "cache: lock release failed",
				slog.String("lock_key", lockKey), slog.Any("error", err))
			return
		}
		if released == 0 {
			// Lock expired mid-section and was re-acquired by another holder.
			r.logger.WarnContext(releaseCtx, "cache: lock release skipped, ownership lost",
				slog.String("lock_key", lockKey))
		}
	}()

	return fn(ctx)
}
