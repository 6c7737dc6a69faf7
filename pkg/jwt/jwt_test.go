package jwt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/core/pkg/jwt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects missing secret", func(t *testing.T) {
		t.Parallel()

		_, err := jwt.New(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingSecret)
	})

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()

		_, err := jwt.New([]byte("too-short"))
		assert.ErrorIs(t, err, jwt.ErrSecretTooShort)
	})

	t.Run("accepts 32-byte secret", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.New(testSecret)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestService_SignVerify(t *testing.T) {
	t.Parallel()

	t.Run("subject and session id round-trip unchanged", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.New(testSecret, jwt.WithIssuer("glowdesk"))
		require.NoError(t, err)

		token, err := svc.Sign("user-1", "sess-abc", time.Now().Add(time.Hour))
		require.NoError(t, err)
		require.NotEmpty(t, token)

		userID, sessionID, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
		assert.Equal(t, "sess-abc", sessionID)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.New(testSecret)
		require.NoError(t, err)

		other, err := jwt.New([]byte("ffffffffffffffffffffffffffffffff"))
		require.NoError(t, err)

		token, err := other.Sign("user-1", "sess-abc", time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, _, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.New(testSecret)
		require.NoError(t, err)

		token, err := svc.Sign("user-1", "sess-abc", time.Now().Add(time.Hour))
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

		_, _, err = svc.Verify(tampered)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("rejects expired token with distinct error", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.New(testSecret)
		require.NoError(t, err)

		token, err := svc.Sign("user-1", "sess-abc", time.Now().Add(-time.Minute))
		require.NoError(t, err)

		_, _, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.New(testSecret)
		require.NoError(t, err)

		_, _, err = svc.Verify("not.a.token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}

func TestService_Decode(t *testing.T) {
	t.Parallel()

	t.Run("recovers claims from an expired token", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.New(testSecret)
		require.NoError(t, err)

		token, err := svc.Sign("user-1", "sess-abc", time.Now().Add(-time.Hour))
		require.NoError(t, err)

		userID, sessionID, ok := svc.Decode(token)
		require.True(t, ok)
		assert.Equal(t, "user-1", userID)
		assert.Equal(t, "sess-abc", sessionID)
	})

	t.Run("fails on malformed input", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.New(testSecret)
		require.NoError(t, err)

		_, _, ok := svc.Decode("garbage")
		assert.False(t, ok)
	})
}
