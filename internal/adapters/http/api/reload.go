package api

import "net/http"

// ReloadHandler handles dataset reload requests.
type ReloadHandler struct {
	deps Dependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps Dependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

type reloadResponse struct {
	Status string `json:"status"`
}

// HandleReload handles POST /api/reload requests. On failure the
// service keeps serving the previous snapshot.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.Reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "reload_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Status: "reloaded"})
}
