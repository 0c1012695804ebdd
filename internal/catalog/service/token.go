// Package service implements the catalog's business logic on top of the
// store interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/internal/catalog/store"
	"github.com/discograph/discograph/pkg/cryptox"
	"github.com/discograph/discograph/pkg/idx"
	"github.com/discograph/discograph/pkg/jwtx"
)

// Refresh token failures, in decreasing order of specificity. A replayed
// token is distinguished from an unknown one so it can be logged as a
// likely theft signal.
var (
	ErrInvalidToken = errors.New("service: invalid token")
	ErrTokenExpired = errors.New("service: token expired")
	ErrTokenUsed    = errors.New("service: token already used")
)

// TokenService mints access tokens and manages the refresh token lifecycle.
type TokenService struct {
	signer     jwtx.Signer
	store      store.Store
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService wires a TokenService. Zero TTLs fall back to the package
// defaults in jwtx.
func NewTokenService(signer jwtx.Signer, st store.Store, issuer string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = jwtx.DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = jwtx.DefaultRefreshTokenTTL
	}
	return &TokenService{
		signer:     signer,
		store:      st,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessTTL returns the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// IssueAccessToken signs a short-lived bearer token for the user.
func (s *TokenService) IssueAccessToken(u domain.User) (string, error) {
	claims := jwtx.NewAccessClaims(string(u.ID), u.Username, u.Roles, s.accessTTL, s.issuer, s.now())
	token, err := s.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// IssueRefreshToken mints an opaque refresh token for the user and persists
// its fingerprint. The returned plaintext is the only copy that ever exists.
func (s *TokenService) IssueRefreshToken(ctx context.Context, userID idx.ID) (string, error) {
	plaintext, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}

	now := s.now().UTC()
	err = s.store.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(plaintext),
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("persist refresh token: %w", err)
	}
	return plaintext, nil
}

// ValidateAndRevoke consumes a refresh token. On success the token is
// revoked and the owning user returned; it can never succeed again for the
// same plaintext. Failures classify as ErrInvalidToken, ErrTokenExpired, or
// ErrTokenUsed.
func (s *TokenService) ValidateAndRevoke(ctx context.Context, plaintext string) (idx.ID, error) {
	if plaintext == "" {
		return idx.Zero, ErrInvalidToken
	}

	hash := cryptox.FingerprintToken(plaintext)
	now := s.now().UTC()

	userID, err := s.store.RefreshTokens().ConsumeRefreshToken(ctx, hash, now)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return idx.Zero, fmt.Errorf("consume refresh token: %w", err)
	}

	// The conditional update missed. Look the row up to say why.
	rec, lookupErr := s.store.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
	switch {
	case errors.Is(lookupErr, store.ErrNotFound):
		return idx.Zero, ErrInvalidToken
	case lookupErr != nil:
		return idx.Zero, fmt.Errorf("classify refresh token: %w", lookupErr)
	case rec.Revoked:
		return idx.Zero, ErrTokenUsed
	case rec.Expired(now):
		return idx.Zero, ErrTokenExpired
	default:
		return idx.Zero, ErrInvalidToken
	}
}

// IssuePair mints a fresh access and refresh token pair for the user.
func (s *TokenService) IssuePair(ctx context.Context, u domain.User) (domain.TokenPair, error) {
	access, err := s.IssueAccessToken(u)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.IssueRefreshToken(ctx, u.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		AccessToken:      access,
		TokenType:        "Bearer",
		ExpiresInSeconds: int64(s.accessTTL.Seconds()),
		RefreshToken:     refresh,
	}, nil
}

// PurgeExpiredRefreshTokens deletes refresh tokens past their lifetime.
// Called periodically by the housekeeping loop.
func (s *TokenService) PurgeExpiredRefreshTokens(ctx context.Context) (int64, error) {
	return s.store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, s.now().UTC())
}
