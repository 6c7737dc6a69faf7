package jwt

import "errors"

var (
	// ErrMissingSecret is returned when no signing secret is provided.
	ErrMissingSecret = errors.New("jwt: no signing secret provided")

	// ErrSecretTooShort is returned when the signing secret is shorter than
	// 32 bytes, the minimum for a credible HMAC-SHA256 key.
	ErrSecretTooShort = errors.New("jwt: signing secret must be at least 32 bytes")

	// ErrInvalidToken is returned when a token fails structural or signature
	// verification.
	ErrInvalidToken = errors.New("jwt: invalid token")

	// ErrExpiredToken is returned when a structurally valid token is past its
	// expiry.
	ErrExpiredToken = errors.New("jwt: token expired")
)
