package api

import (
	"net/http"
	"strings"
)

// CompareHandler handles multi-driver comparison requests.
type CompareHandler struct {
	deps Dependencies
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(deps Dependencies) *CompareHandler {
	return &CompareHandler{deps: deps}
}

// HandleCompareDrivers handles
// GET /api/compare?track=NAME&drivers=a,b,c requests.
func (h *CompareHandler) HandleCompareDrivers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	track := q.Get("track")
	if track == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingTrack)
		return
	}

	var drivers []string
	for _, d := range strings.Split(q.Get("drivers"), ",") {
		if d = strings.TrimSpace(d); d != "" {
			drivers = append(drivers, d)
		}
	}
	if len(drivers) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingDrivers)
		return
	}

	res, err := h.deps.CompareDrivers(r.Context(), track, drivers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
