package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/internal/catalog/store"
	"github.com/discograph/discograph/pkg/idx"
)

type captureNotifier struct {
	events []domain.AlbumCreatedEvent
}

func (c *captureNotifier) NotifyAlbumCreated(e domain.AlbumCreatedEvent) {
	c.events = append(c.events, e)
}

func newCatalogFixture(t *testing.T) (*CatalogService, *captureNotifier) {
	t.Helper()
	st := newTestStore(t)
	notifier := &captureNotifier{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCatalogService(st, notifier, log), notifier
}

func TestCatalogServiceArtists(t *testing.T) {
	svc, _ := newCatalogFixture(t)
	ctx := context.Background()

	t.Run("create trims and round-trips", func(t *testing.T) {
		a, err := svc.CreateArtist(ctx, "  Boards of Canada ", "GB", 1986)
		require.NoError(t, err)
		require.Equal(t, "Boards of Canada", a.Name)

		got, err := svc.GetArtist(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, a.Name, got.Name)
	})

	t.Run("blank name is invalid", func(t *testing.T) {
		_, err := svc.CreateArtist(ctx, "   ", "", 0)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("update unknown artist is not found", func(t *testing.T) {
		_, err := svc.UpdateArtist(ctx, idx.New(), "Ghost", "", 0)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestCatalogServiceAlbums(t *testing.T) {
	svc, notifier := newCatalogFixture(t)
	ctx := context.Background()

	artist, err := svc.CreateArtist(ctx, "Autechre", "GB", 1987)
	require.NoError(t, err)

	t.Run("create notifies subscribers", func(t *testing.T) {
		album, err := svc.CreateAlbum(ctx, artist.ID, "Tri Repetae", 1995)
		require.NoError(t, err)

		require.Len(t, notifier.events, 1)
		e := notifier.events[0]
		require.Equal(t, album.ID, e.AlbumID)
		require.Equal(t, "Tri Repetae", e.Title)
		require.Equal(t, 1995, e.ReleaseYear)
		require.False(t, e.CreatedAt.IsZero())
	})

	t.Run("create against a missing artist is not found and stays silent", func(t *testing.T) {
		before := len(notifier.events)
		_, err := svc.CreateAlbum(ctx, idx.New(), "Nowhere", 2000)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.Len(t, notifier.events, before)
	})

	t.Run("release year is validated", func(t *testing.T) {
		_, err := svc.CreateAlbum(ctx, artist.ID, "Bad Year", 99)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("listing checks the artist first", func(t *testing.T) {
		_, err := svc.ListAlbumsByArtist(ctx, idx.New(), 0, 0)
		require.ErrorIs(t, err, store.ErrNotFound)

		albums, err := svc.ListAlbumsByArtist(ctx, artist.ID, 0, 0)
		require.NoError(t, err)
		require.NotEmpty(t, albums)
	})
}

func TestCatalogServiceTracks(t *testing.T) {
	svc, _ := newCatalogFixture(t)
	ctx := context.Background()

	artist, err := svc.CreateArtist(ctx, "Plaid", "GB", 1991)
	require.NoError(t, err)
	album, err := svc.CreateAlbum(ctx, artist.ID, "Not for Threes", 1997)
	require.NoError(t, err)

	t.Run("create and list in track order", func(t *testing.T) {
		_, err := svc.CreateTrack(ctx, album.ID, 2, "Second", 200)
		require.NoError(t, err)
		_, err = svc.CreateTrack(ctx, album.ID, 1, "First", 180)
		require.NoError(t, err)

		tracks, err := svc.ListTracksByAlbum(ctx, album.ID)
		require.NoError(t, err)
		require.Len(t, tracks, 2)
		require.Equal(t, "First", tracks[0].Title)
		require.Equal(t, "Second", tracks[1].Title)
	})

	t.Run("duplicate track number conflicts", func(t *testing.T) {
		_, err := svc.CreateTrack(ctx, album.ID, 1, "Clash", 100)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("batch create lands the whole tracklist", func(t *testing.T) {
		second, err := svc.CreateAlbum(ctx, artist.ID, "Double Figure", 2001)
		require.NoError(t, err)

		tracks, err := svc.CreateTracks(ctx, second.ID, []TrackInput{
			{TrackNumber: 1, Title: "Eyen", DurationSeconds: 251},
			{TrackNumber: 2, Title: "Squance", DurationSeconds: 286},
		})
		require.NoError(t, err)
		require.Len(t, tracks, 2)

		listed, err := svc.ListTracksByAlbum(ctx, second.ID)
		require.NoError(t, err)
		require.Len(t, listed, 2)
	})

	t.Run("batch create is all or nothing", func(t *testing.T) {
		third, err := svc.CreateAlbum(ctx, artist.ID, "Spokes", 2003)
		require.NoError(t, err)

		_, err = svc.CreateTracks(ctx, third.ID, []TrackInput{
			{TrackNumber: 1, Title: "Ok", DurationSeconds: 100},
			{TrackNumber: 1, Title: "Clashes", DurationSeconds: 100},
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		listed, err := svc.ListTracksByAlbum(ctx, third.ID)
		require.NoError(t, err)
		require.Empty(t, listed)
	})

	t.Run("empty batch is invalid", func(t *testing.T) {
		_, err := svc.CreateTracks(ctx, album.ID, nil)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("invalid fields are rejected", func(t *testing.T) {
		_, err := svc.CreateTrack(ctx, album.ID, 0, "Zeroth", 100)
		require.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.CreateTrack(ctx, album.ID, 3, "", 100)
		require.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.CreateTrack(ctx, album.ID, 3, "Negative", -1)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}
