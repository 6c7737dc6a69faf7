package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// minSecretLength is the minimum signing secret length in bytes.
const minSecretLength = 32

// claims is the wire shape of a refresh token: standard registered claims
// plus the session id that locates the cache-resident session record.
type claims struct {
	jwtlib.RegisteredClaims
	SessionID string `json:"sid"`
}

// Service signs and verifies refresh tokens with HMAC-SHA256.
type Service struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithIssuer sets the iss claim on signed tokens. Verification does not
// enforce it; it exists for observability across services sharing a secret.
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		s.issuer = issuer
	}
}

// WithNow overrides the time source used for the iat claim and expiry
// validation. It must match the clock used to compute cache TTLs or the two
// notions of expiry drift apart.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a signing service. A missing or short secret is rejected here,
// at startup, rather than surfacing per request.
func New(secret []byte, opts ...Option) (*Service, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if len(secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}

	s := &Service{
		secret: secret,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Sign mints a token for the given user and session, expiring at expiresAt.
func (s *Service) Sign(userID, sessionID string, expiresAt time.Time) (string, error) {
	now := s.now()

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry and returns its subject and
// session id. All library-level failures are folded into ErrInvalidToken or
// ErrExpiredToken; no raw jwt errors cross this boundary.
func (s *Service) Verify(token string) (userID, sessionID string, err error) {
	var c claims

	parsed, err := jwtlib.ParseWithClaims(token, &c,
		func(t *jwtlib.Token) (any, error) { return s.secret, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return "", "", ErrExpiredToken
		}
		return "", "", ErrInvalidToken
	}
	if !parsed.Valid {
		return "", "", ErrInvalidToken
	}

	return c.Subject, c.SessionID, nil
}

// Decode recovers the subject and session id without verifying the signature
// or expiry. Use only for best-effort cleanup; never for authentication.
func (s *Service) Decode(token string) (userID, sessionID string, ok bool) {
	var c claims

	if _, _, err := jwtlib.NewParser().ParseUnverified(token, &c); err != nil {
		return "", "", false
	}
	return c.Subject, c.SessionID, true
}
