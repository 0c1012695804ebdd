package domain

import (
	"time"

	"github.com/discograph/discograph/pkg/idx"
)

// AlbumCreatedEvent is broadcast to websocket subscribers whenever an album
// is added to the catalog.
type AlbumCreatedEvent struct {
	AlbumID     idx.ID    `json:"albumId"`
	Title       string    `json:"title"`
	ReleaseYear int       `json:"releaseYear"`
	CreatedAt   time.Time `json:"createdAt"`
}
