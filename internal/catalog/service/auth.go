package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/internal/catalog/store"
	"github.com/discograph/discograph/pkg/cryptox"
	"github.com/discograph/discograph/pkg/idx"
)

var (
	ErrInvalidCredentials = errors.New("service: invalid credentials")
	ErrUsernameTaken      = errors.New("service: username taken")
	ErrWeakPassword       = errors.New("service: password too short")
	ErrBadUsername        = errors.New("service: unusable username")
)

const minPasswordLength = 8

// AuthService handles registration, login, and refresh rotation.
type AuthService struct {
	store  store.Store
	tokens *TokenService
	now    func() time.Time
}

func NewAuthService(st store.Store, tokens *TokenService) *AuthService {
	return &AuthService{store: st, tokens: tokens, now: time.Now}
}

// Register creates an account with the user role.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > 64 {
		return domain.User{}, ErrBadUsername
	}
	if len(password) < minPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	u := domain.User{
		ID:           idx.New(),
		Username:     username,
		PasswordHash: hash,
		Roles:        []string{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login verifies credentials and mints a token pair. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	u, err := s.store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, fmt.Errorf("verify password: %w", err)
	}

	return s.tokens.IssuePair(ctx, u)
}

// Refresh rotates a refresh token: the presented token is consumed and a
// brand new pair issued. A second presentation of the same token fails with
// ErrTokenUsed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	userID, err := s.tokens.ValidateAndRevoke(ctx, refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}

	u, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}
	return s.tokens.IssuePair(ctx, u)
}

// Logout revokes every live refresh token of the user.
func (s *AuthService) Logout(ctx context.Context, userID idx.ID) error {
	_, err := s.store.RefreshTokens().RevokeUserRefreshTokens(ctx, userID)
	return err
}
