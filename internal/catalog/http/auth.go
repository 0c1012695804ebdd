package http

import (
	"net/http"
	"strings"

	"github.com/discograph/discograph/internal/catalog/service"
	"github.com/discograph/discograph/pkg/httpx"
	"github.com/discograph/discograph/pkg/idx"
	"github.com/discograph/discograph/pkg/slogx"
)

// AuthHandler serves the /v1/auth endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister godoc
//
//	@Summary		Register a new account
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		credentialsRequest	true	"username and password"
//	@Success		201		{object}	registerResponse
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		409		{object}	httpx.ErrorBody
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "body must be JSON with username and password")
		return
	}

	u, err := h.Auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("user registered", "user_id", u.ID, "username", u.Username)
	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		ID:       u.ID,
		Username: u.Username,
		Roles:    u.Roles,
	})
}

type registerResponse struct {
	ID       idx.ID   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// HandleLogin godoc
//
//	@Summary		Exchange credentials for a token pair
//	@Description	Returns a short-lived access token and a single-use refresh token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		credentialsRequest	true	"username and password"
//	@Success		200		{object}	domain.TokenPair
//	@Failure		401		{object}	httpx.ErrorBody
//	@Failure		429		{object}	httpx.ErrorBody
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "body must be JSON with username and password")
		return
	}

	pair, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("login succeeded", "username", strings.TrimSpace(req.Username))
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// HandleRefresh godoc
//
//	@Summary		Rotate a refresh token
//	@Description	Consumes the presented refresh token and issues a new pair. Each refresh token works exactly once.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		refreshRequest	true	"refresh token"
//	@Success		200		{object}	domain.TokenPair
//	@Failure		401		{object}	httpx.ErrorBody
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "body must be JSON with refreshToken")
		return
	}

	pair, err := h.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, pair)
}

// HandleLogout godoc
//
//	@Summary		Revoke every refresh token of the caller
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	httpx.ErrorBody
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	id, _ := httpx.IdentityFromContext(r.Context())
	userID, err := idx.Parse(id.UserID)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	if err := h.Auth.Logout(r.Context(), userID); err != nil {
		writeServiceError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
