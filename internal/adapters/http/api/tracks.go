package api

import "net/http"

// TracksHandler handles circuit listing requests.
type TracksHandler struct {
	deps Dependencies
}

// NewTracksHandler creates a new tracks handler.
func NewTracksHandler(deps Dependencies) *TracksHandler {
	return &TracksHandler{deps: deps}
}

// HandleGetTracks handles GET /api/tracks requests.
func (h *TracksHandler) HandleGetTracks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	tracks, err := h.deps.Tracks(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}
