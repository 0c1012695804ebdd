package http

import (
	"net/http"

	"github.com/discograph/discograph/internal/catalog/domain"
	"github.com/discograph/discograph/internal/catalog/service"
	"github.com/discograph/discograph/pkg/httpx"
	"github.com/discograph/discograph/pkg/slogx"
)

// TracksHandler serves track endpoints under both /v1/albums/{id}/tracks
// and /v1/tracks/{id}.
type TracksHandler struct {
	Catalog *service.CatalogService
}

type trackRequest struct {
	TrackNumber     int    `json:"trackNumber"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"durationSeconds"`
}

// HandleListByAlbum godoc
//
//	@Summary	List an album's tracks in track order
//	@Tags		Tracks
//	@Produce	json
//	@Param		id	path		string	true	"album id"
//	@Success	200	{array}		domain.Track
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/v1/albums/{id}/tracks [get].
func (h *TracksHandler) HandleListByAlbum(w http.ResponseWriter, r *http.Request) {
	albumID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	tracks, err := h.Catalog.ListTracksByAlbum(r.Context(), albumID)
	if err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	if tracks == nil {
		tracks = []domain.Track{}
	}
	httpx.WriteJSON(w, http.StatusOK, tracks)
}

// HandleCreate godoc
//
//	@Summary	Add a track to an album
//	@Tags		Tracks
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"album id"
//	@Param		body	body		trackRequest	true	"track fields"
//	@Success	201		{object}	domain.Track
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	409		{object}	httpx.ErrorBody
//	@Router		/v1/albums/{id}/tracks [post].
func (h *TracksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	albumID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req trackRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "body must be JSON")
		return
	}

	track, err := h.Catalog.CreateTrack(r.Context(), albumID, req.TrackNumber, req.Title, req.DurationSeconds)
	if err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, track)
}

// HandleCreateBatch godoc
//
//	@Summary		Add a whole tracklist to an album
//	@Description	Transactional: any invalid entry or track number conflict rejects the entire batch.
//	@Tags			Tracks
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"album id"
//	@Param			body	body		[]trackRequest	true	"track list"
//	@Success		201		{array}		domain.Track
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		409		{object}	httpx.ErrorBody
//	@Router			/v1/albums/{id}/tracks/batch [post].
func (h *TracksHandler) HandleCreateBatch(w http.ResponseWriter, r *http.Request) {
	albumID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var reqs []trackRequest
	if err := decodeJSON(r, &reqs); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON array of tracks")
		return
	}

	inputs := make([]service.TrackInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, service.TrackInput{
			TrackNumber:     req.TrackNumber,
			Title:           req.Title,
			DurationSeconds: req.DurationSeconds,
		})
	}

	tracks, err := h.Catalog.CreateTracks(r.Context(), albumID, inputs)
	if err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, tracks)
}

// HandleGet godoc
//
//	@Summary	Fetch one track
//	@Tags		Tracks
//	@Produce	json
//	@Param		id	path		string	true	"track id"
//	@Success	200	{object}	domain.Track
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/v1/tracks/{id} [get].
func (h *TracksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	track, err := h.Catalog.GetTrack(r.Context(), id)
	if err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, track)
}

// HandleUpdate godoc
//
//	@Summary	Update a track
//	@Tags		Tracks
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"track id"
//	@Param		body	body		trackRequest	true	"track fields"
//	@Success	200		{object}	domain.Track
//	@Failure	404		{object}	httpx.ErrorBody
//	@Router		/v1/tracks/{id} [put].
func (h *TracksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req trackRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "body must be JSON")
		return
	}

	track, err := h.Catalog.UpdateTrack(r.Context(), id, req.TrackNumber, req.Title, req.DurationSeconds)
	if err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, track)
}

// HandleDelete godoc
//
//	@Summary	Delete a track
//	@Tags		Tracks
//	@Security	BearerAuth
//	@Param		id	path	string	true	"track id"
//	@Success	204
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/v1/tracks/{id} [delete].
func (h *TracksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteTrack(r.Context(), id); err != nil {
		writeServiceError(w, slogx.FromContext(r.Context()), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
