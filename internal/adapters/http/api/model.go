package api

import "net/http"

// ModelHandler handles model description requests.
type ModelHandler struct {
	deps Dependencies
}

// NewModelHandler creates a new model handler.
func NewModelHandler(deps Dependencies) *ModelHandler {
	return &ModelHandler{deps: deps}
}

// HandleGetModel handles GET /api/model requests.
func (h *ModelHandler) HandleGetModel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	mi, err := h.deps.ModelInfo(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mi)
}
