package domain

import (
	"time"

	"github.com/discograph/discograph/pkg/idx"
)

// Artist is a recording artist or group in the catalog.
type Artist struct {
	ID        idx.ID    `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country,omitempty"`
	FormedIn  int       `json:"formedIn,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Album belongs to exactly one artist.
type Album struct {
	ID          idx.ID    `json:"id"`
	ArtistID    idx.ID    `json:"artistId"`
	Title       string    `json:"title"`
	ReleaseYear int       `json:"releaseYear"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Track belongs to exactly one album. TrackNumber is unique within the
// album.
type Track struct {
	ID              idx.ID    `json:"id"`
	AlbumID         idx.ID    `json:"albumId"`
	TrackNumber     int       `json:"trackNumber"`
	Title           string    `json:"title"`
	DurationSeconds int       `json:"durationSeconds"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
