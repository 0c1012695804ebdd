package sqlite

import (
	"context"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/pkg/idx"
)

type tracksRepo struct {
	q dbtx
}

const trackColumns = `id, album_id, track_number, title, duration_seconds, created_at, updated_at`

func (r *tracksRepo) CreateTrack(ctx context.Context, t domain.Track) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO tracks (id, album_id, track_number, title, duration_seconds, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(t.ID), string(t.AlbumID), t.TrackNumber, t.Title, t.DurationSeconds,
		utc(t.CreatedAt), utc(t.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *tracksRepo) GetTrack(ctx context.Context, id idx.ID) (domain.Track, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+trackColumns+` FROM tracks WHERE id = ?`, string(id))
	return scanTrack(row)
}

func (r *tracksRepo) ListTracksByAlbum(ctx context.Context, albumID idx.ID) ([]domain.Track, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+trackColumns+` FROM tracks
		WHERE album_id = ? ORDER BY track_number`,
		string(albumID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tracksRepo) UpdateTrack(ctx context.Context, t domain.Track) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE tracks SET track_number = ?, title = ?, duration_seconds = ?, updated_at = ?
		WHERE id = ?`,
		t.TrackNumber, t.Title, t.DurationSeconds, utc(t.UpdatedAt), string(t.ID),
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}

func (r *tracksRepo) DeleteTrack(ctx context.Context, id idx.ID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanTrack(row rowScanner) (domain.Track, error) {
	var (
		t       domain.Track
		id      string
		albumID string
	)
	err := row.Scan(&id, &albumID, &t.TrackNumber, &t.Title, &t.DurationSeconds, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Track{}, mapNotFound(err)
	}
	t.ID = idx.ID(id)
	t.AlbumID = idx.ID(albumID)
	return t, nil
}
