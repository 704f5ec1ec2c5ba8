package api

import (
	"net/http"
	"strconv"
)

// ComparisonHandler handles driver-vs-benchmark corner delta requests.
type ComparisonHandler struct {
	deps Dependencies
}

// NewComparisonHandler creates a new comparison handler.
func NewComparisonHandler(deps Dependencies) *ComparisonHandler {
	return &ComparisonHandler{deps: deps}
}

// HandleGetComparison handles
// GET /api/comparison?track=&driver=&benchmark=&from=&to= requests.
// Omitted benchmark means the track's fastest driver; omitted from/to
// leave the corner range open.
func (h *ComparisonHandler) HandleGetComparison(w http.ResponseWriter, r *http.Request) {
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

	from, ok := cornerParam(q.Get("from"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	to, ok := cornerParam(q.Get("to"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	comps, err := h.deps.Comparison(r.Context(), track, driver, q.Get("benchmark"), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comps)
}

// cornerParam parses an optional corner-number parameter; empty means 0
// (open end).
func cornerParam(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
