package cryptox_test

import (
	"encoding/base64"
	"testing"

	"github.com/discograph/discograph/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Run("produces url-safe tokens of expected length", func(t *testing.T) {
		token, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, cryptox.TokenSize256)
	})

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := cryptox.GenerateToken(0)
		require.Error(t, err)

		_, err = cryptox.GenerateToken(-1)
		require.Error(t, err)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			token, err := cryptox.GenerateToken(cryptox.TokenSize256)
			require.NoError(t, err)
			_, dup := seen[token]
			require.False(t, dup, "duplicate token generated")
			seen[token] = struct{}{}
		}
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		require.Equal(t,
			cryptox.FingerprintToken("some-token"),
			cryptox.FingerprintToken("some-token"),
		)
	})

	t.Run("differs for different inputs", func(t *testing.T) {
		require.NotEqual(t,
			cryptox.FingerprintToken("token-a"),
			cryptox.FingerprintToken("token-b"),
		)
	})

	t.Run("does not leak the token", func(t *testing.T) {
		fp := cryptox.FingerprintToken("super-secret")
		require.NotContains(t, fp, "super-secret")
	})
}
