package http

import (
	"net/http"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/internal/catalog/service"
	"github.com/discograph/discograph/pkg/httpx"
	"github.com/discograph/discograph/pkg/slogx"
)

// AlbumsHandler serves album endpoints under both /v1/artists/{id}/albums
// and /v1/albums/{id}.
type AlbumsHandler struct {
	Catalog *service.CatalogService
}

type albumRequest struct {
	Title       string `json:"title"`
	ReleaseYear int    `json:"releaseYear"`
}

// HandleListByArtist godoc
//
//	@Summary	List an artist's albums
//	@Tags		Albums
//	@Produce	json
//	@Param		id		path		string	true	"artist id"
//	@Param		limit	query		int		false	"page size"
//	@Param		offset	query		int		false	"page offset"
//	@Success	200		{array}		domain.Album
//	@Failure	404		{object}	httpx.ErrorBody
//	@Router		/v1/artists/{id}/albums [get].
func (h *AlbumsHandler) HandleListByArtist(w http.ResponseWriter, r *http.Request) {
	artistID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	albums, err := h.Catalog.ListAlbumsByArtist(r.Context(), artistID, queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	if albums == nil {
		albums = []domain.Album{}
	}
	httpx.WriteJSON(w, http.StatusOK, albums)
}

// HandleCreate godoc
//
//	@Summary		Add an album to an artist
//	@Description	Connected websocket subscribers receive an albumCreated event.
//	@Tags			Albums
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"artist id"
//	@Param			body	body		albumRequest	true	"album fields"
//	@Success		201		{object}	domain.Album
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		404		{object}	httpx.ErrorBody
//	@Router			/v1/artists/{id}/albums [post].
func (h *AlbumsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	artistID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req albumRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "body must be JSON")
		return
	}

	album, err := h.Catalog.CreateAlbum(r.Context(), artistID, req.Title, req.ReleaseYear)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, album)
}

// HandleGet godoc
//
//	@Summary	Fetch one album
//	@Tags		Albums
//	@Produce	json
//	@Param		id	path		string	true	"album id"
//	@Success	200	{object}	domain.Album
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/v1/albums/{id} [get].
func (h *AlbumsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	album, err := h.Catalog.GetAlbum(r.Context(), id)
	if err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, album)
}

// HandleUpdate godoc
//
//	@Summary	Update an album
//	@Tags		Albums
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"album id"
//	@Param		body	body		albumRequest	true	"album fields"
//	@Success	200		{object}	domain.Album
//	@Failure	404		{object}	httpx.ErrorBody
//	@Router		/v1/albums/{id} [put].
func (h *AlbumsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req albumRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "body must be JSON")
		return
	}

	album, err := h.Catalog.UpdateAlbum(r.Context(), id, req.Title, req.ReleaseYear)
	if err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, album)
}

// HandleDelete godoc
//
//	@Summary	Delete an album and its tracks
//	@Tags		Albums
//	@Security	BearerAuth
//	@Param		id	path	string	true	"album id"
//	@Success	204
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/v1/albums/{id} [delete].
func (h *AlbumsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteAlbum(r.Context(), id); err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
