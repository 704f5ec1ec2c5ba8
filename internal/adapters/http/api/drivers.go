package api

import (
	"errors"
	"net/http"
	"strings"

	service "github.com/grcup/apexcoach/internal/app"
)

// DriversHandler handles driver listing, summary and coaching requests.
type DriversHandler struct {
	deps Dependencies
}

// NewDriversHandler creates a new drivers handler.
func NewDriversHandler(deps Dependencies) *DriversHandler {
	return &DriversHandler{deps: deps}
}

// HandleListDrivers handles GET /api/drivers?track=NAME requests. An
// omitted track lists the whole season.
func (h *DriversHandler) HandleListDrivers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	drivers, err := h.deps.Drivers(r.Context(), r.URL.Query().Get("track"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drivers)
}

// HandleDriverSubpath routes GET /api/drivers/{id}/summary and
// GET /api/drivers/{id}/opportunities requests.
func (h *DriversHandler) HandleDriverSubpath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/drivers/")
	driver, action, ok := strings.Cut(rest, "/")
	if !ok || driver == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch action {
	case "summary":
		h.handleSummary(w, r, driver)
	case "opportunities":
		h.handleOpportunities(w, r, driver)
	default:
		http.NotFound(w, r)
	}
}

func (h *DriversHandler) handleSummary(w http.ResponseWriter, r *http.Request, driver string) {
	stats, err := h.deps.DriverSummary(r.Context(), driver)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// insufficientDataResponse is the placeholder answer when a driver has
// too few comparable corners for coaching.
type insufficientDataResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *DriversHandler) handleOpportunities(w http.ResponseWriter, r *http.Request, driver string) {
	q := r.URL.Query()
	track := q.Get("track")
	if track == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingTrack)
		return
	}

	report, err := h.deps.Opportunities(r.Context(), track, driver, q.Get("benchmark"))
	if err != nil {
		if errors.Is(err, service.ErrInsufficientData) {
			writeJSON(w, http.StatusOK, insufficientDataResponse{
				Status:  "insufficient_data",
				Message: err.Error(),
			})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
