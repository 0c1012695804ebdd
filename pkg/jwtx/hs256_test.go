package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/discograph/discograph/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestNewHS256(t *testing.T) {
	t.Run("rejects short secrets", func(t *testing.T) {
		_, err := jwtx.NewHS256([]byte("too-short"), "discograph")
		require.Error(t, err)
	})

	t.Run("accepts 32 byte secrets", func(t *testing.T) {
		_, err := jwtx.NewHS256(testSecret, "discograph")
		require.NoError(t, err)
	})
}

func TestHS256RoundTrip(t *testing.T) {
	h, err := jwtx.NewHS256(testSecret, "discograph")
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims(
		"01JD0USER0000000000000000",
		"alice",
		[]string{"user", "admin"},
		5*time.Minute,
		"discograph",
		time.Now(),
	)

	raw, err := h.Sign(claims)
	require.NoError(t, err)
	require.Equal(t, 3, len(strings.Split(raw, ".")))

	got, err := h.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "01JD0USER0000000000000000", got.Subject)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, []string{"user", "admin"}, got.Roles)
	require.True(t, got.HasRole("admin"))
	require.False(t, got.HasRole("superuser"))
}

func TestHS256Verify(t *testing.T) {
	h, err := jwtx.NewHS256(testSecret, "discograph")
	require.NoError(t, err)

	t.Run("rejects expired tokens", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("u1", "alice", nil,
			5*time.Minute, "discograph", time.Now().Add(-time.Hour))

		raw, err := h.Sign(claims)
		require.NoError(t, err)

		_, err = h.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("rejects tampered signature", func(t *testing.T) {
		other, err := jwtx.NewHS256([]byte("ffffffffffffffffffffffffffffffff"), "discograph")
		require.NoError(t, err)

		claims := jwtx.NewAccessClaims("u1", "alice", nil,
			5*time.Minute, "discograph", time.Now())
		raw, err := other.Sign(claims)
		require.NoError(t, err)

		_, err = h.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := h.Verify("definitely.not.a-jwt")
		require.Error(t, err)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		rogue, err := jwtx.NewHS256(testSecret, "someone-else")
		require.NoError(t, err)

		claims := jwtx.NewAccessClaims("u1", "alice", nil,
			5*time.Minute, "someone-else", time.Now())
		raw, err := rogue.Sign(claims)
		require.NoError(t, err)

		_, err = h.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})
}
