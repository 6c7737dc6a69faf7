package refresh

import (
	"log/slog"
	"time"
)

// DefaultTTL is the refresh credential lifetime used when no override is given.
const DefaultTTL = 30 * 24 * time.Hour

// Option configures the Manager.
type Option func(*Manager)

// WithTTL sets the lifetime of issued credentials. The session record's cache
// TTL is derived from the same value, floored at one second.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithLogger sets the logger for security-relevant events such as reuse
// detection.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithNow overrides the time source used for TTL computation. It must be the
// same clock the token codec uses for expiry, or the cache TTL and the signed
// expiry drift apart.
func WithNow(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}
