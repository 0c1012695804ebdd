package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/internal/catalog/store"
	"github.com/discograph/discograph/pkg/idx"
)

// ErrInvalidInput wraps every validation failure so handlers can map the
// whole family to 400.
var ErrInvalidInput = errors.New("service: invalid input")

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// AlbumNotifier receives an event for every album added to the catalog.
type AlbumNotifier interface {
	NotifyAlbumCreated(domain.AlbumCreatedEvent)
}

// NopNotifier drops events. Used when no websocket hub is running.
type NopNotifier struct{}

func (NopNotifier) NotifyAlbumCreated(domain.AlbumCreatedEvent) {}

// CatalogService owns artist, album, and track management.
type CatalogService struct {
	store    store.Store
	notifier AlbumNotifier
	log      *slog.Logger
	now      func() time.Time
}

func NewCatalogService(st store.Store, notifier AlbumNotifier, log *slog.Logger) *CatalogService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &CatalogService{store: st, notifier: notifier, log: log, now: time.Now}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *CatalogService) CreateArtist(ctx context.Context, name, country string, formedIn int) (domain.Artist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Artist{}, fmt.Errorf("%w: artist name is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	a := domain.Artist{
		ID:        idx.New(),
		Name:      name,
		Country:   strings.TrimSpace(country),
		FormedIn:  formedIn,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Artists().CreateArtist(ctx, a); err != nil {
		return domain.Artist{}, err
	}
	return a, nil
}

func (s *CatalogService) GetArtist(ctx context.Context, id idx.ID) (domain.Artist, error) {
	return s.store.Artists().GetArtist(ctx, id)
}

func (s *CatalogService) ListArtists(ctx context.Context, limit, offset int) ([]domain.Artist, error) {
	limit, offset = clampPage(limit, offset)
	return s.store.Artists().ListArtists(ctx, limit, offset)
}

func (s *CatalogService) UpdateArtist(ctx context.Context, id idx.ID, name, country string, formedIn int) (domain.Artist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Artist{}, fmt.Errorf("%w: artist name is required", ErrInvalidInput)
	}

	a, err := s.store.Artists().GetArtist(ctx, id)
	if err != nil {
		return domain.Artist{}, err
	}
	a.Name = name
	a.Country = strings.TrimSpace(country)
	a.FormedIn = formedIn
	a.UpdatedAt = s.now().UTC()

	if err := s.store.Artists().UpdateArtist(ctx, a); err != nil {
		return domain.Artist{}, err
	}
	return a, nil
}

func (s *CatalogService) DeleteArtist(ctx context.Context, id idx.ID) error {
	return s.store.Artists().DeleteArtist(ctx, id)
}

func (s *CatalogService) CreateAlbum(ctx context.Context, artistID idx.ID, title string, releaseYear int) (domain.Album, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Album{}, fmt.Errorf("%w: album title is required", ErrInvalidInput)
	}
	if releaseYear < 1000 || releaseYear > 9999 {
		return domain.Album{}, fmt.Errorf("%w: release year out of range", ErrInvalidInput)
	}

	now := s.now().UTC()
	a := domain.Album{
		ID:          idx.New(),
		ArtistID:    artistID,
		Title:       title,
		ReleaseYear: releaseYear,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Albums().CreateAlbum(ctx, a); err != nil {
		return domain.Album{}, err
	}

	s.notifier.NotifyAlbumCreated(domain.AlbumCreatedEvent{
		AlbumID:     a.ID,
		Title:       a.Title,
		ReleaseYear: a.ReleaseYear,
		CreatedAt:   a.CreatedAt,
	})
	s.log.Info("album created", "album_id", a.ID, "artist_id", a.ArtistID, "title", a.Title)
	return a, nil
}

func (s *CatalogService) GetAlbum(ctx context.Context, id idx.ID) (domain.Album, error) {
	return s.store.Albums().GetAlbum(ctx, id)
}

func (s *CatalogService) ListAlbumsByArtist(ctx context.Context, artistID idx.ID, limit, offset int) ([]domain.Album, error) {
	limit, offset = clampPage(limit, offset)
	if _, err := s.store.Artists().GetArtist(ctx, artistID); err != nil {
		return nil, err
	}
	return s.store.Albums().ListAlbumsByArtist(ctx, artistID, limit, offset)
}

func (s *CatalogService) UpdateAlbum(ctx context.Context, id idx.ID, title string, releaseYear int) (domain.Album, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Album{}, fmt.Errorf("%w: album title is required", ErrInvalidInput)
	}

	a, err := s.store.Albums().GetAlbum(ctx, id)
	if err != nil {
		return domain.Album{}, err
	}
	a.Title = title
	a.ReleaseYear = releaseYear
	a.UpdatedAt = s.now().UTC()

	if err := s.store.Albums().UpdateAlbum(ctx, a); err != nil {
		return domain.Album{}, err
	}
	return a, nil
}

func (s *CatalogService) DeleteAlbum(ctx context.Context, id idx.ID) error {
	return s.store.Albums().DeleteAlbum(ctx, id)
}

func (s *CatalogService) CreateTrack(ctx context.Context, albumID idx.ID, trackNumber int, title string, durationSeconds int) (domain.Track, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return domain.Track{}, fmt.Errorf("%w: track title is required", ErrInvalidInput)
	case trackNumber < 1:
		return domain.Track{}, fmt.Errorf("%w: track number must be positive", ErrInvalidInput)
	case durationSeconds < 0:
		return domain.Track{}, fmt.Errorf("%w: duration cannot be negative", ErrInvalidInput)
	}

	now := s.now().UTC()
	t := domain.Track{
		ID:              idx.New(),
		AlbumID:         albumID,
		TrackNumber:     trackNumber,
		Title:           title,
		DurationSeconds: durationSeconds,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Tracks().CreateTrack(ctx, t); err != nil {
		return domain.Track{}, err
	}
	return t, nil
}

// TrackInput is one entry of a batch track creation.
type TrackInput struct {
	TrackNumber     int
	Title           string
	DurationSeconds int
}

// CreateTracks inserts a whole tracklist transactionally. Any invalid entry
// or conflict aborts the batch; either every track lands or none do.
func (s *CatalogService) CreateTracks(ctx context.Context, albumID idx.ID, inputs []TrackInput) ([]domain.Track, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one track is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	tracks := make([]domain.Track, 0, len(inputs))
	for i, in := range inputs {
		title := strings.TrimSpace(in.Title)
		switch {
		case title == "":
			return nil, fmt.Errorf("%w: track %d: title is required", ErrInvalidInput, i+1)
		case in.TrackNumber < 1:
			return nil, fmt.Errorf("%w: track %d: track number must be positive", ErrInvalidInput, i+1)
		case in.DurationSeconds < 0:
			return nil, fmt.Errorf("%w: track %d: duration cannot be negative", ErrInvalidInput, i+1)
		}
		tracks = append(tracks, domain.Track{
			ID:              idx.New(),
			AlbumID:         albumID,
			TrackNumber:     in.TrackNumber,
			Title:           title,
			DurationSeconds: in.DurationSeconds,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		for _, t := range tracks {
			if err := tx.Tracks().CreateTrack(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

func (s *CatalogService) GetTrack(ctx context.Context, id idx.ID) (domain.Track, error) {
	return s.store.Tracks().GetTrack(ctx, id)
}

func (s *CatalogService) ListTracksByAlbum(ctx context.Context, albumID idx.ID) ([]domain.Track, error) {
	if _, err := s.store.Albums().GetAlbum(ctx, albumID); err != nil {
		return nil, err
	}
	return s.store.Tracks().ListTracksByAlbum(ctx, albumID)
}

func (s *CatalogService) UpdateTrack(ctx context.Context, id idx.ID, trackNumber int, title string, durationSeconds int) (domain.Track, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return domain.Track{}, fmt.Errorf("%w: track title is required", ErrInvalidInput)
	case trackNumber < 1:
		return domain.Track{}, fmt.Errorf("%w: track number must be positive", ErrInvalidInput)
	case durationSeconds < 0:
		return domain.Track{}, fmt.Errorf("%w: duration cannot be negative", ErrInvalidInput)
	}

	t, err := s.store.Tracks().GetTrack(ctx, id)
	if err != nil {
		return domain.Track{}, err
	}
	t.TrackNumber = trackNumber
	t.Title = title
	t.DurationSeconds = durationSeconds
	t.UpdatedAt = s.now().UTC()

	if err := s.store.Tracks().UpdateTrack(ctx, t); err != nil {
		return domain.Track{}, err
	}
	return t, nil
}

func (s *CatalogService) DeleteTrack(ctx context.Context, id idx.ID) error {
	return s.store.Tracks().DeleteTrack(ctx, id)
}
