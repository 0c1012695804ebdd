package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/discograph/discograph/internal/catalog/service"
	"github.com/discograph/discograph/internal/catalog/store"
	"github.com/discograph/discograph/pkg/httpx"
	"github.com/discograph/discograph/pkg/idx"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}

// pathID parses the named path segment as an identifier. Unparseable IDs
// cannot name anything, so they respond 404 directly.
func pathID(w http.ResponseWriter, r *http.Request, name string) (idx.ID, bool) {
	id, err := idx.Parse(r.PathValue(name))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "resource not found")
		return idx.Zero, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter, falling back on junk.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}

// writeServiceError maps service and store failures onto the error envelope.
// Anything unrecognized is a 500 and gets logged; everything else is the
// caller's fault and is not.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, service.ErrBadUsername):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "username is required and must be at most 64 characters")
	case errors.Is(err, service.ErrWeakPassword):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "password must be at least 8 characters")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "username or password is incorrect")
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "refresh token is not recognized")
	case errors.Is(err, service.ErrTokenExpired):
		httpx.WriteError(w, http.StatusUnauthorized, "token_expired", "refresh token has expired")
	case errors.Is(err, service.ErrTokenUsed):
		httpx.WriteError(w, http.StatusUnauthorized, "token_used", "refresh token has already been used")
	case errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteError(w, http.StatusConflict, "conflict", "username is already taken")
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, "conflict", "resource already exists")
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "resource not found")
	default:
		log.Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
