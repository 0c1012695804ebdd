package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/internal/catalog/store"
	"github.com/discograph/discograph/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "catalog.db") + "?_pragma=busy_timeout(5000)"
	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s *Store, username string) domain.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	u := domain.User{
		ID:           idx.New(),
		Username:     username,
		PasswordHash: "x",
		Roles:        []string{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersRepo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		u := seedUser(t, s, "alice")

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Username, got.Username)
		require.Equal(t, []string{domain.RoleUser}, got.Roles)
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		got, err := s.Users().GetUserByUsername(ctx, "ALICE")
		require.NoError(t, err)
		require.Equal(t, "alice", got.Username)
	})

	t.Run("duplicate username is rejected regardless of case", func(t *testing.T) {
		now := time.Now().UTC()
		err := s.Users().CreateUser(ctx, domain.User{
			ID: idx.New(), Username: "Alice", PasswordHash: "y",
			Roles: []string{domain.RoleUser}, CreatedAt: now, UpdatedAt: now,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("missing user maps to not found", func(t *testing.T) {
		_, err := s.Users().GetUserByUsername(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func seedRefreshToken(t *testing.T, s *Store, userID idx.ID, hash string, expiresAt time.Time) domain.RefreshToken {
	t.Helper()
	now := time.Now().UTC()
	tok := domain.RefreshToken{
		ID:        idx.New(),
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: now,
	}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(context.Background(), tok))
	return tok
}

func TestRefreshTokensRepo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "carol")
	now := time.Now().UTC()

	t.Run("consume succeeds once then misses", func(t *testing.T) {
		seedRefreshToken(t, s, u.ID, "hash-once", now.Add(time.Hour))

		userID, err := s.RefreshTokens().ConsumeRefreshToken(ctx, "hash-once", now)
		require.NoError(t, err)
		require.Equal(t, u.ID, userID)

		_, err = s.RefreshTokens().ConsumeRefreshToken(ctx, "hash-once", now)
		require.ErrorIs(t, err, store.ErrNotFound)

		got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-once")
		require.NoError(t, err)
		require.True(t, got.Revoked)
	})

	t.Run("expired token never consumes", func(t *testing.T) {
		seedRefreshToken(t, s, u.ID, "hash-expired", now.Add(-time.Minute))

		_, err := s.RefreshTokens().ConsumeRefreshToken(ctx, "hash-expired", now)
		require.ErrorIs(t, err, store.ErrNotFound)

		got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-expired")
		require.NoError(t, err)
		require.False(t, got.Revoked)
	})

	t.Run("unknown fingerprint misses", func(t *testing.T) {
		_, err := s.RefreshTokens().ConsumeRefreshToken(ctx, "no-such-hash", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("concurrent replay consumes exactly once", func(t *testing.T) {
		seedRefreshToken(t, s, u.ID, "hash-race", now.Add(time.Hour))

		var ok atomic.Int64
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if _, err := s.RefreshTokens().ConsumeRefreshToken(ctx, "hash-race", now); err == nil {
					ok.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		require.EqualValues(t, 1, ok.Load())
	})

	t.Run("revoke all live tokens for a user", func(t *testing.T) {
		other := seedUser(t, s, "dave")
		seedRefreshToken(t, s, other.ID, "dave-1", now.Add(time.Hour))
		seedRefreshToken(t, s, other.ID, "dave-2", now.Add(time.Hour))

		n, err := s.RefreshTokens().RevokeUserRefreshTokens(ctx, other.ID)
		require.NoError(t, err)
		require.EqualValues(t, 2, n)

		_, err = s.RefreshTokens().ConsumeRefreshToken(ctx, "dave-1", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete expired removes only past tokens", func(t *testing.T) {
		eve := seedUser(t, s, "eve")
		seedRefreshToken(t, s, eve.ID, "eve-old", now.Add(-time.Hour))
		seedRefreshToken(t, s, eve.ID, "eve-live", now.Add(time.Hour))

		n, err := s.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, int64(1))

		_, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "eve-old")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "eve-live")
		require.NoError(t, err)
	})
}

func seedArtist(t *testing.T, s store.Store, name string) domain.Artist {
	t.Helper()
	now := time.Now().UTC()
	a := domain.Artist{ID: idx.New(), Name: name, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Artists().CreateArtist(context.Background(), a))
	return a
}

func seedAlbum(t *testing.T, s store.Store, artistID idx.ID, title string, year int) domain.Album {
	t.Helper()
	now := time.Now().UTC()
	a := domain.Album{ID: idx.New(), ArtistID: artistID, Title: title, ReleaseYear: year, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Albums().CreateAlbum(context.Background(), a))
	return a
}

func TestCatalogRepos(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("artist round trip and listing order", func(t *testing.T) {
		seedArtist(t, s, "Zeal")
		seedArtist(t, s, "Amber")

		got, err := s.Artists().ListArtists(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "Amber", got[0].Name)
	})

	t.Run("album requires an existing artist", func(t *testing.T) {
		now := time.Now().UTC()
		err := s.Albums().CreateAlbum(ctx, domain.Album{
			ID: idx.New(), ArtistID: idx.New(), Title: "Orphan", ReleaseYear: 2001,
			CreatedAt: now, UpdatedAt: now,
		})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate track number in an album is rejected", func(t *testing.T) {
		artist := seedArtist(t, s, "The Dupes")
		album := seedAlbum(t, s, artist.ID, "Twice", 1999)
		now := time.Now().UTC()

		mk := func(id idx.ID, n int) domain.Track {
			return domain.Track{
				ID: id, AlbumID: album.ID, TrackNumber: n, Title: "t",
				DurationSeconds: 180, CreatedAt: now, UpdatedAt: now,
			}
		}
		require.NoError(t, s.Tracks().CreateTrack(ctx, mk(idx.New(), 1)))
		require.ErrorIs(t, s.Tracks().CreateTrack(ctx, mk(idx.New(), 1)), store.ErrAlreadyExists)
		require.NoError(t, s.Tracks().CreateTrack(ctx, mk(idx.New(), 2)))

		tracks, err := s.Tracks().ListTracksByAlbum(ctx, album.ID)
		require.NoError(t, err)
		require.Len(t, tracks, 2)
	})

	t.Run("deleting an artist cascades to albums and tracks", func(t *testing.T) {
		artist := seedArtist(t, s, "Gone Soon")
		album := seedAlbum(t, s, artist.ID, "Last One", 2010)
		now := time.Now().UTC()
		require.NoError(t, s.Tracks().CreateTrack(ctx, domain.Track{
			ID: idx.New(), AlbumID: album.ID, TrackNumber: 1, Title: "Bye",
			DurationSeconds: 120, CreatedAt: now, UpdatedAt: now,
		}))

		require.NoError(t, s.Artists().DeleteArtist(ctx, artist.ID))

		_, err := s.Albums().GetAlbum(ctx, album.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		tracks, err := s.Tracks().ListTracksByAlbum(ctx, album.ID)
		require.NoError(t, err)
		require.Empty(t, tracks)
	})

	t.Run("update of a missing row maps to not found", func(t *testing.T) {
		now := time.Now().UTC()
		err := s.Artists().UpdateArtist(ctx, domain.Artist{ID: idx.New(), Name: "Ghost", UpdatedAt: now})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		artist := seedArtist(t, s, "Rolled Back Band")
		err := s.WithTx(ctx, func(tx store.Store) error {
			if err := tx.Artists().DeleteArtist(ctx, artist.ID); err != nil {
				return err
			}
			return context.Canceled
		})
		require.ErrorIs(t, err, context.Canceled)

		_, err = s.Artists().GetArtist(ctx, artist.ID)
		require.NoError(t, err)
	})
}
