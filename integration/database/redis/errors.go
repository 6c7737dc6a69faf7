package redis

import "errors"

// Stable error kinds for connection bootstrap. Check with errors.Is for
// retry logic and startup diagnostics.
var (
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")
	ErrInvalidURLScheme   = errors.New("redis: connection URL must use redis:// or rediss://")
	ErrParseConnectionURL = errors.New("redis: failed to parse connection URL")
	ErrNotReady           = errors.New("redis: did not become ready within the connect timeout")
	ErrHealthcheckFailed  = errors.New("redis: healthcheck failed")
)
