package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/internal/catalog/service"
	"github.com/discograph/discograph/internal/catalog/store"
	"github.com/discograph/discograph/pkg/httpx"
	"github.com/discograph/discograph/pkg/jwtx"
	"github.com/discograph/discograph/pkg/slogx"

	_ "github.com/discograph/discograph/api/catalog" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

const loginPath = "/v1/auth/login"

// rateLimitSkipPrefixes lists paths the post-authentication gate never
// throttles: probes, docs, the websocket feed, and the auth endpoints,
// which carry their own login gate.
var rateLimitSkipPrefixes = []string{
	"/livez",
	"/readyz",
	"/swagger/",
	"/v1/auth/",
	"/ws/",
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	Auth    *service.AuthService
	Catalog *service.CatalogService

	// AlbumFeed serves the websocket event stream when set.
	AlbumFeed http.Handler
}

// NewRouter builds the middleware pipeline. Order matters: the request is
// logged, then the login gate runs before authentication so credential
// guessing is throttled pre-verification, then authentication, then the
// per-identity gate which needs the identity to key on.
func NewRouter(
	verifier jwtx.Verifier,
	loginLimiter, userLimiter *httpx.Limiter,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(logger),
		httpx.LoginRateLimit(loginLimiter, loginPath, logger),
		httpx.Authn(verifier, logger),
		httpx.UserRateLimit(userLimiter, rateLimitSkipPrefixes),
	}
	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerArtists()
	r.registerAlbums()
	r.registerTracks()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Discograph Catalog API
//	@version		0.1.0
//	@description	Music catalog service with per-identity rate limiting and JWT bearer authentication.
//	@description
//	@description	Access tokens are HS256-signed and short-lived; refresh tokens are opaque and single-use.
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Auth: r.Auth}

	r.Mux.HandleFunc("POST /v1/auth/register", h.HandleRegister)
	r.Mux.HandleFunc("POST "+loginPath, h.HandleLogin)
	r.Mux.HandleFunc("POST /v1/auth/refresh", h.HandleRefresh)
	r.Mux.Handle("POST /v1/auth/logout", httpx.RequireAuth(http.HandlerFunc(h.HandleLogout)))
}

func (r *Router) registerArtists() {
	h := &ArtistsHandler{Catalog: r.Catalog}
	admin := httpx.RequireRole(domain.RoleAdmin)

	r.Mux.HandleFunc("GET /v1/artists", h.HandleList)
	r.Mux.HandleFunc("GET /v1/artists/{id}", h.HandleGet)
	r.Mux.Handle("POST /v1/artists", admin(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("PUT /v1/artists/{id}", admin(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/artists/{id}", admin(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerAlbums() {
	h := &AlbumsHandler{Catalog: r.Catalog}
	admin := httpx.RequireRole(domain.RoleAdmin)

	r.Mux.HandleFunc("GET /v1/artists/{id}/albums", h.HandleListByArtist)
	r.Mux.HandleFunc("GET /v1/albums/{id}", h.HandleGet)
	r.Mux.Handle("POST /v1/artists/{id}/albums", admin(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("PUT /v1/albums/{id}", admin(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/albums/{id}", admin(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerTracks() {
	h := &TracksHandler{Catalog: r.Catalog}
	admin := httpx.RequireRole(domain.RoleAdmin)

	r.Mux.HandleFunc("GET /v1/albums/{id}/tracks", h.HandleListByAlbum)
	r.Mux.HandleFunc("GET /v1/tracks/{id}", h.HandleGet)
	r.Mux.Handle("POST /v1/albums/{id}/tracks", admin(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("POST /v1/albums/{id}/tracks/batch", admin(http.HandlerFunc(h.HandleCreateBatch)))
	r.Mux.Handle("PUT /v1/tracks/{id}", admin(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/tracks/{id}", admin(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store, r.startTime, r.buildVersion))

	if r.AlbumFeed != nil {
		r.Mux.Handle("GET /ws/albums", r.AlbumFeed)
	}
}
