package sqlite

import (
	"context"
	"time"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/pkg/idx"
)

type refreshTokensRepo struct {
	q dbtx
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, revoked, expires_at, created_at)
		VALUES (?, ?, ?, 0, ?, ?)`,
		string(t.ID), string(t.UserID), t.TokenHash, utc(t.ExpiresAt), utc(t.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, revoked, expires_at, created_at
		FROM refresh_tokens WHERE token_hash = ?`, hash)

	var (
		t      domain.RefreshToken
		id     string
		userID string
	)
	err := row.Scan(&id, &userID, &t.TokenHash, &t.Revoked, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	t.ID = idx.ID(id)
	t.UserID = idx.ID(userID)
	return t, nil
}

// ConsumeRefreshToken flips exactly one live, unexpired token to revoked.
// The WHERE clause carries the whole race: concurrent callers all run the
// same UPDATE, the engine serializes them, and only the first matches a
// still-live row.
func (r *refreshTokensRepo) ConsumeRefreshToken(ctx context.Context, hash string, now time.Time) (idx.ID, error) {
	row := r.q.QueryRowContext(ctx, `
		UPDATE refresh_tokens SET revoked = 1
		WHERE token_hash = ? AND revoked = 0 AND expires_at > ?
		RETURNING user_id`, hash, utc(now))

	var userID string
	if err := row.Scan(&userID); err != nil {
		return idx.Zero, mapNotFound(err)
	}
	return idx.ID(userID), nil
}

func (r *refreshTokensRepo) RevokeUserRefreshTokens(ctx context.Context, userID idx.ID) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE refresh_tokens SET revoked = 1
		WHERE user_id = ? AND revoked = 0`, string(userID))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= ?`, utc(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
