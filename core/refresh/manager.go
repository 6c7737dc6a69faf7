package refresh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/core/core/cache"
)

// TokenCodec signs and verifies refresh tokens. Implementations must
// round-trip the user id and session id unchanged through Sign and Verify.
// Decode recovers claims without verification and is used only for
// best-effort cleanup of already-expired tokens.
type TokenCodec interface {
	Sign(userID, sessionID string, expiresAt time.Time) (token string, err error)
	Verify(token string) (userID, sessionID string, err error)
	Decode(token string) (userID, sessionID string, ok bool)
}

// Manager issues, rotates, and revokes refresh-token sessions. All shared
// state lives behind the injected cache facade; the manager itself is
// stateless and safe for concurrent use across request handlers and process
// instances.
type Manager struct {
	cache  cache.Cache
	codec  TokenCodec
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a session lifecycle manager.
func NewManager(c cache.Cache, codec TokenCodec, opts ...Option) (*Manager, error) {
	if c == nil {
		return nil, ErrCacheRequired
	}
	if codec == nil {
		return nil, ErrCodecRequired
	}

	m := &Manager{
		cache:  c,
		codec:  codec,
		ttl:    DefaultTTL,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// TTL returns the credential lifetime used for issuance. Cookie attributes
// delivered to clients must use the same lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue mints a credential for userID: a fresh random session id, a signed
// token bound to it, and an active session record in the cache whose TTL
// matches the token's lifetime. The session id is also appended to the user's
// session index, which is rewritten with the same TTL.
func (m *Manager) Issue(ctx context.Context, userID string, meta Meta) (Credential, error) {
	sessionID := uuid.NewString()
	expiresAt := m.now().Add(m.ttl)

	token, err := m.codec.Sign(userID, sessionID, expiresAt)
	if err != nil {
		return Credential{}, fmt.Errorf("refresh: sign token: %w", err)
	}

	ttl := m.cacheTTL(expiresAt)

	record := Record{
		UserID:    userID,
		Status:    StatusActive,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	}
	if _, err := m.cache.Set(ctx, sessionKey(sessionID), record, cache.WithTTL(ttl)); err != nil {
		return Credential{}, err
	}

	// Advisory index append. Lost updates under concurrent issuance are
	// accepted; the record above remains authoritative.
	var ids []string
	if _, err := m.cache.Get(ctx, userKey(userID), &ids); err != nil {
		return Credential{}, err
	}
	ids = append(ids, sessionID)
	if _, err := m.cache.Set(ctx, userKey(userID), ids, cache.WithTTL(ttl)); err != nil {
		return Credential{}, err
	}

	return Credential{Token: token, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

// Rotate exchanges a valid refresh token for a new credential, enforcing
// single use. A token that fails verification yields ErrInvalidOrExpired
// without any cache access. A verified token whose record is missing or no
// longer active is a replay signal: every session of that user is revoked
// before ErrReusedOrRevoked is returned.
func (m *Manager) Rotate(ctx context.Context, token string, meta Meta) (Rotation, error) {
	userID, sessionID, err := m.codec.Verify(token)
	if err != nil {
		return Rotation{}, errors.Join(ErrInvalidOrExpired, err)
	}

	var record Record
	found, err := m.cache.Get(ctx, sessionKey(sessionID), &record)
	if err != nil {
		return Rotation{}, err
	}

	if !found || record.Status != StatusActive {
		m.logger.WarnContext(ctx, "refresh: token reuse detected, revoking all user sessions",
			slog.String("user_id", userID),
			slog.String("session_id", sessionID))
		if err := m.RevokeAll(ctx, userID); err != nil {
			return Rotation{}, err
		}
		return Rotation{}, ErrReusedOrRevoked
	}

	// Single-use enforcement: retire the presented token first. A crash
	// between this write and the Issue below logs the user out but never
	// leaves two live tokens for one session.
	if err := m.revokeRecord(ctx, sessionID, record); err != nil {
		return Rotation{}, err
	}

	cred, err := m.Issue(ctx, userID, meta)
	if err != nil {
		return Rotation{}, err
	}

	return Rotation{UserID: userID, Credential: cred}, nil
}

// RevokeByToken best-effort revokes the session a token points at, for
// logout. An expired signature does not prevent cleanup: verification
// failures fall back to unverified decoding to recover the session id. When
// no session id is recoverable this is a no-op.
func (m *Manager) RevokeByToken(ctx context.Context, token string) error {
	_, sessionID, err := m.codec.Verify(token)
	if err != nil {
		var ok bool
		if _, sessionID, ok = m.codec.Decode(token); !ok || sessionID == "" {
			return nil
		}
	}

	return m.RevokeOne(ctx, sessionID)
}

// RevokeOne marks a single session revoked and prunes it from its user's
// index. Revoking an absent or already-revoked session is a no-op, never an
// error.
func (m *Manager) RevokeOne(ctx context.Context, sessionID string) error {
	var record Record
	found, err := m.cache.Get(ctx, sessionKey(sessionID), &record)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	if record.Status != StatusRevoked {
		if err := m.revokeRecord(ctx, sessionID, record); err != nil {
			return err
		}
	}

	// Best-effort index prune; a racing writer may resurrect the id, which
	// later revocations tolerate.
	var ids []string
	found, err = m.cache.Get(ctx, userKey(record.UserID), &ids)
	if err != nil || !found {
		return err
	}

	pruned := ids[:0]
	for _, id := range ids {
		if id != sessionID {
			pruned = append(pruned, id)
		}
	}
	if len(pruned) == len(ids) {
		return nil
	}

	remaining, hasTTL, err := m.cache.TTL(ctx, userKey(record.UserID))
	if err != nil {
		return err
	}
	opts := []cache.SetOption{}
	if hasTTL {
		opts = append(opts, cache.WithTTL(floorTTL(remaining)))
	}
	_, err = m.cache.Set(ctx, userKey(record.UserID), pruned, opts...)
	return err
}

// RevokeAll revokes every session listed in the user's index and deletes the
// index itself. Records already gone from the cache are skipped. This is the
// cascading invalidation that neutralizes a stolen-token family the moment
// reuse is detected.
func (m *Manager) RevokeAll(ctx context.Context, userID string) error {
	var ids []string
	if _, err := m.cache.Get(ctx, userKey(userID), &ids); err != nil {
		return err
	}

	for _, sessionID := range ids {
		var record Record
		found, err := m.cache.Get(ctx, sessionKey(sessionID), &record)
		if err != nil {
			return err
		}
		if !found || record.Status == StatusRevoked {
			continue
		}
		if err := m.revokeRecord(ctx, sessionID, record); err != nil {
			return err
		}
	}

	return m.cache.Delete(ctx, userKey(userID))
}

// revokeRecord flips a record to revoked in place, preserving its remaining
// lifetime so the tombstone survives exactly as long as the token it retires.
func (m *Manager) revokeRecord(ctx context.Context, sessionID string, record Record) error {
	record.Status = StatusRevoked

	remaining, hasTTL, err := m.cache.TTL(ctx, sessionKey(sessionID))
	if err != nil {
		return err
	}
	ttl := time.Second
	if hasTTL {
		ttl = floorTTL(remaining)
	}

	_, err = m.cache.Set(ctx, sessionKey(sessionID), record, cache.WithTTL(ttl))
	return err
}

// cacheTTL converts an absolute expiry into a whole-second cache TTL,
// floored at one second so a write is never an immediate no-op.
func (m *Manager) cacheTTL(expiresAt time.Time) time.Duration {
	return floorTTL(expiresAt.Sub(m.now()).Truncate(time.Second))
}

func floorTTL(ttl time.Duration) time.Duration {
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}
