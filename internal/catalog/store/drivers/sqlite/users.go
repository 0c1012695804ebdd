package sqlite

import (
	"context"
	"strings"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/pkg/idx"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, username, password_hash, roles, created_at, updated_at`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, roles, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(u.ID), u.Username, u.PasswordHash, strings.Join(u.Roles, " "),
		utc(u.CreatedAt), utc(u.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id idx.ID) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, string(id))
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER(?)`, username)
	return scanUser(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u     domain.User
		id    string
		roles string
	)
	err := row.Scan(&id, &u.Username, &u.PasswordHash, &roles, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.ID = idx.ID(id)
	u.Roles = strings.Fields(roles)
	return u, nil
}
