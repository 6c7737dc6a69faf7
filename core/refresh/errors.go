package refresh

import "errors"

var (
	// ErrInvalidOrExpired is returned when a presented token fails signature
	// or expiry verification. The cache is never touched in this case.
	ErrInvalidOrExpired = errors.New("refresh: token invalid or expired")

	// ErrReusedOrRevoked is returned when a structurally valid token points
	// at a missing or revoked session record. By the time the caller sees
	// this error, every session of the affected user has been revoked.
	ErrReusedOrRevoked = errors.New("refresh: token reused or revoked")

	// ErrCacheRequired is returned by NewManager when no cache facade is provided.
	ErrCacheRequired = errors.New("refresh: cache facade is required")

	// ErrCodecRequired is returned by NewManager when no token codec is provided.
	ErrCodecRequired = errors.New("refresh: token codec is required")
)
