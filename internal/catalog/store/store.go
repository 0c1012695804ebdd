// Package store defines the persistence contract for the catalog service.
// Drivers live in subpackages; the rest of the code depends only on these
// interfaces.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/pkg/idx"
)

// Sentinel errors drivers translate their engine-specific failures into.
var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store aggregates every repository plus lifecycle helpers.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Artists() Artists
	Albums() Albums
	Tracks() Tracks

	// WithTx runs fn inside a transaction. The Store passed to fn operates
	// on that transaction; returning an error rolls everything back.
	WithTx(ctx context.Context, fn func(Store) error) error

	ApplyMigrations() error
	Ping(ctx context.Context) error
	Close() error
}

// Users stores accounts. Usernames are unique case-insensitively.
type Users interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, id idx.ID) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

// RefreshTokens stores opaque refresh token fingerprints.
type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// ConsumeRefreshToken atomically marks the live token with the given
	// fingerprint as revoked and returns its owning user. It must never
	// succeed twice for the same fingerprint, no matter how many callers
	// race. A miss returns ErrNotFound; classifying why it missed is the
	// caller's job.
	ConsumeRefreshToken(ctx context.Context, hash string, now time.Time) (userID idx.ID, err error)

	// RevokeUserRefreshTokens revokes every live token for the user,
	// returning how many were revoked.
	RevokeUserRefreshTokens(ctx context.Context, userID idx.ID) (int64, error)

	// DeleteExpiredRefreshTokens removes rows whose lifetime ended before
	// the cutoff, returning how many were deleted.
	DeleteExpiredRefreshTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

// Artists stores recording artists.
type Artists interface {
	CreateArtist(ctx context.Context, a domain.Artist) error
	GetArtist(ctx context.Context, id idx.ID) (domain.Artist, error)
	ListArtists(ctx context.Context, limit, offset int) ([]domain.Artist, error)
	UpdateArtist(ctx context.Context, a domain.Artist) error
	DeleteArtist(ctx context.Context, id idx.ID) error
}

// Albums stores albums. Deleting an artist cascades to its albums.
type Albums interface {
	CreateAlbum(ctx context.Context, a domain.Album) error
	GetAlbum(ctx context.Context, id idx.ID) (domain.Album, error)
	ListAlbumsByArtist(ctx context.Context, artistID idx.ID, limit, offset int) ([]domain.Album, error)
	UpdateAlbum(ctx context.Context, a domain.Album) error
	DeleteAlbum(ctx context.Context, id idx.ID) error
}

// Tracks stores tracks. Track numbers are unique within an album.
type Tracks interface {
	CreateTrack(ctx context.Context, t domain.Track) error
	GetTrack(ctx context.Context, id idx.ID) (domain.Track, error)
	ListTracksByAlbum(ctx context.Context, albumID idx.ID) ([]domain.Track, error)
	UpdateTrack(ctx context.Context, t domain.Track) error
	DeleteTrack(ctx context.Context, id idx.ID) error
}
