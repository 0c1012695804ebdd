package domain

import (
	"time"

	"github.com/discograph/discograph/pkg/idx"
)

// RefreshToken is the stored record of an opaque refresh token. Only the
// fingerprint of the token is persisted; the plaintext exists solely in the
// response that handed it to the client.
type RefreshToken struct {
	ID        idx.ID
	UserID    idx.ID
	TokenHash string
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its lifetime at the given time.
func (t RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// TokenPair is the login and refresh response body.
type TokenPair struct {
	AccessToken      string `json:"accessToken"`
	TokenType        string `json:"tokenType"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
	RefreshToken     string `json:"refreshToken"`
}
