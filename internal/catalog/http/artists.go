package http

import (
	"net/http"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/internal/catalog/service"
	"github.com/discograph/discograph/pkg/httpx"
	"github.com/discograph/discograph/pkg/slogx"
)

// ArtistsHandler serves the /v1/artists endpoints.
type ArtistsHandler struct {
	Catalog *service.CatalogService
}

type artistRequest struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	FormedIn int    `json:"formedIn"`
}

// HandleList godoc
//
//	@Summary	List artists
//	@Tags		Artists
//	@Produce	json
//	@Param		limit	query		int	false	"page size"
//	@Param		offset	query		int	false	"page offset"
//	@Success	200		{array}		domain.Artist
//	@Router		/v1/artists [get].
func (h *ArtistsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	artists, err := h.Catalog.ListArtists(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	if artists == nil {
		artists = []domain.Artist{}
	}
	httpx.WriteJSON(w, http.StatusOK, artists)
}

// HandleGet godoc
//
//	@Summary	Fetch one artist
//	@Tags		Artists
//	@Produce	json
//	@Param		id	path		string	true	"artist id"
//	@Success	200	{object}	domain.Artist
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/v1/artists/{id} [get].
func (h *ArtistsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	artist, err := h.Catalog.GetArtist(r.Context(), id)
	if err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, artist)
}

// HandleCreate godoc
//
//	@Summary	Create an artist
//	@Tags		Artists
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		artistRequest	true	"artist fields"
//	@Success	201		{object}	domain.Artist
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	403		{object}	httpx.ErrorBody
//	@Router		/v1/artists [post].
func (h *ArtistsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req artistRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "body must be JSON")
		return
	}

	artist, err := h.Catalog.CreateArtist(r.Context(), req.Name, req.Country, req.FormedIn)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("artist created", "artist_id", artist.ID, "name", artist.Name)
	httpx.WriteJSON(w, http.StatusCreated, artist)
}

// HandleUpdate godoc
//
//	@Summary	Update an artist
//	@Tags		Artists
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"artist id"
//	@Param		body	body		artistRequest	true	"artist fields"
//	@Success	200		{object}	domain.Artist
//	@Failure	404		{object}	httpx.ErrorBody
//	@Router		/v1/artists/{id} [put].
func (h *ArtistsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req artistRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "body must be JSON")
		return
	}

	artist, err := h.Catalog.UpdateArtist(r.Context(), id, req.Name, req.Country, req.FormedIn)
	if err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, artist)
}

// HandleDelete godoc
//
//	@Summary	Delete an artist and everything under it
//	@Tags		Artists
//	@Security	BearerAuth
//	@Param		id	path	string	true	"artist id"
//	@Success	204
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/v1/artists/{id} [delete].
func (h *ArtistsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteArtist(r.Context(), id); err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
