package api

import (
	"net/http"
	"strconv"
)

// WhatIfHandler handles lap-time projection requests.
type WhatIfHandler struct {
	deps Dependencies
}

// NewWhatIfHandler creates a new what-if handler.
func NewWhatIfHandler(deps Dependencies) *WhatIfHandler {
	return &WhatIfHandler{deps: deps}
}

// HandleWhatIf handles
// GET /api/whatif?track=&driver=&improvement=PCT requests.
func (h *WhatIfHandler) HandleWhatIf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	track := q.Get("track")
	driver := q.Get("driver")
	if track == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingTrack)
		return
	}
	if driver == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingDriver)
		return
	}
	pct, err := strconv.ParseFloat(q.Get("improvement"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	res, err := h.deps.WhatIf(r.Context(), track, driver, pct)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
