package sqlite

import (
	"context"
	"database/sql"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/internal/catalog/store"
	"github.com/discograph/discograph/pkg/idx"
)

type artistsRepo struct {
	q dbtx
}

const artistColumns = `id, name, country, formed_in, created_at, updated_at`

func (r *artistsRepo) CreateArtist(ctx context.Context, a domain.Artist) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO artists (id, name, country, formed_in, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(a.ID), a.Name, a.Country, a.FormedIn, utc(a.CreatedAt), utc(a.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *artistsRepo) GetArtist(ctx context.Context, id idx.ID) (domain.Artist, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+artistColumns+` FROM artists WHERE id = ?`, string(id))
	return scanArtist(row)
}

func (r *artistsRepo) ListArtists(ctx context.Context, limit, offset int) ([]domain.Artist, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+artistColumns+` FROM artists ORDER BY name, id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *artistsRepo) UpdateArtist(ctx context.Context, a domain.Artist) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE artists SET name = ?, country = ?, formed_in = ?, updated_at = ?
		WHERE id = ?`,
		a.Name, a.Country, a.FormedIn, utc(a.UpdatedAt), string(a.ID),
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *artistsRepo) DeleteArtist(ctx context.Context, id idx.ID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanArtist(row rowScanner) (domain.Artist, error) {
	var (
		a  domain.Artist
		id string
	)
	err := row.Scan(&id, &a.Name, &a.Country, &a.FormedIn, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Artist{}, mapNotFound(err)
	}
	a.ID = idx.ID(id)
	return a, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
