package notify

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/pkg/idx"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(hub.Close)

	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	first := dial(t, srv.URL)
	second := dial(t, srv.URL)

	event := domain.AlbumCreatedEvent{
		AlbumID:     idx.New(),
		Title:       "Geogaddi",
		ReleaseYear: 2002,
		CreatedAt:   time.Now().UTC(),
	}

	// Give the server time to register both subscribers.
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 2
	}, time.Second, 10*time.Millisecond)

	hub.NotifyAlbumCreated(event)

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var got domain.AlbumCreatedEvent
		require.NoError(t, json.Unmarshal(payload, &got))
		require.Equal(t, event.AlbumID, got.AlbumID)
		require.Equal(t, "Geogaddi", got.Title)
		require.Equal(t, 2002, got.ReleaseYear)
	}
}

func TestHubDropsDisconnectedClients(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(hub.Close)

	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	conn := dial(t, srv.URL)
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 0
	}, time.Second, 10*time.Millisecond)

	// Broadcasting into an empty hub is a no-op.
	hub.NotifyAlbumCreated(domain.AlbumCreatedEvent{AlbumID: idx.New(), Title: "x"})
}
