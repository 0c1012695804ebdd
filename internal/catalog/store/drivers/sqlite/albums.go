package sqlite

import (
	"context"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/pkg/idx"
)

type albumsRepo struct {
	q dbtx
}

const albumColumns = `id, artist_id, title, release_year, created_at, updated_at`

func (r *albumsRepo) CreateAlbum(ctx context.Context, a domain.Album) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO albums (id, artist_id, title, release_year, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(a.ID), string(a.ArtistID), a.Title, a.ReleaseYear,
		utc(a.CreatedAt), utc(a.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *albumsRepo) GetAlbum(ctx context.Context, id idx.ID) (domain.Album, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE id = ?`, string(id))
	return scanAlbum(row)
}

func (r *albumsRepo) ListAlbumsByArtist(ctx context.Context, artistID idx.ID, limit, offset int) ([]domain.Album, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+albumColumns+` FROM albums
		WHERE artist_id = ? ORDER BY release_year, id LIMIT ? OFFSET ?`,
		string(artistID), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *albumsRepo) UpdateAlbum(ctx context.Context, a domain.Album) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE albums SET title = ?, release_year = ?, updated_at = ?
		WHERE id = ?`,
		a.Title, a.ReleaseYear, utc(a.UpdatedAt), string(a.ID),
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *albumsRepo) DeleteAlbum(ctx context.Context, id idx.ID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanAlbum(row rowScanner) (domain.Album, error) {
	var (
		a        domain.Album
		id       string
		artistID string
	)
	err := row.Scan(&id, &artistID, &a.Title, &a.ReleaseYear, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Album{}, mapNotFound(err)
	}
	a.ID = idx.ID(id)
	a.ArtistID = idx.ID(artistID)
	return a, nil
}
