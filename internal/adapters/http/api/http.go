// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/grcup/apexcoach/internal/app"
	"github.com/grcup/apexcoach/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Tracks(ctx context.Context) ([]model.TrackSummary, error)
	Drivers(ctx context.Context, track string) ([]model.DriverStats, error)
	DriverSummary(ctx context.Context, driver string) ([]model.DriverStats, error)
	Opportunities(ctx context.Context, track, driver, benchmark string) (*service.CoachingReport, error)
	Comparison(ctx context.Context, track, driver, benchmark string, from, to int) ([]model.CornerComparison, error)
	CompareDrivers(ctx context.Context, track string, drivers []string) (*service.CompareResult, error)
	ModelInfo(ctx context.Context) (model.ModelInfo, error)
	WhatIf(ctx context.Context, track, driver string, improvementPct float64) (*service.WhatIfResult, error)
	Clusters(ctx context.Context) ([]model.DriverCluster, error)
	Reload(ctx context.Context) error
	GetStats(ctx context.Context) (*service.Stats, error)
}

// Server wires HTTP routes for the analytics API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	tracksHandler     *TracksHandler
	driversHandler    *DriversHandler
	comparisonHandler *ComparisonHandler
	compareHandler    *CompareHandler
	modelHandler      *ModelHandler
	whatIfHandler     *WhatIfHandler
	clustersHandler   *ClustersHandler
	reloadHandler     *ReloadHandler
	dashboardHandler  *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(deps),
		tracksHandler:     NewTracksHandler(deps),
		driversHandler:    NewDriversHandler(deps),
		comparisonHandler: NewComparisonHandler(deps),
		compareHandler:    NewCompareHandler(deps),
		modelHandler:      NewModelHandler(deps),
		whatIfHandler:     NewWhatIfHandler(deps),
		clustersHandler:   NewClustersHandler(deps),
		reloadHandler:     NewReloadHandler(deps),
		dashboardHandler:  newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/api/tracks", MetricsMiddleware(s.tracksHandler.HandleGetTracks, "tracks"))
	mux.HandleFunc("/api/drivers", MetricsMiddleware(s.driversHandler.HandleListDrivers, "drivers"))
	mux.HandleFunc("/api/drivers/", MetricsMiddleware(s.driversHandler.HandleDriverSubpath, "driver"))
	mux.HandleFunc("/api/comparison", MetricsMiddleware(s.comparisonHandler.HandleGetComparison, "comparison"))
	mux.HandleFunc("/api/compare", MetricsMiddleware(s.compareHandler.HandleCompareDrivers, "compare"))
	mux.HandleFunc("/api/model", MetricsMiddleware(s.modelHandler.HandleGetModel, "model"))
	mux.HandleFunc("/api/whatif", MetricsMiddleware(s.whatIfHandler.HandleWhatIf, "whatif"))
	mux.HandleFunc("/api/clusters", MetricsMiddleware(s.clustersHandler.HandleGetClusters, "clusters"))
	mux.HandleFunc("/api/reload", MetricsMiddleware(s.reloadHandler.HandleReload, "reload"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service sentinel errors to HTTP answers.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTrackNotFound):
		writeError(w, http.StatusNotFound, "track_not_found", err)
	case errors.Is(err, service.ErrDriverNotFound):
		writeError(w, http.StatusNotFound, "driver_not_found", err)
	case errors.Is(err, service.ErrTooManyDrivers),
		errors.Is(err, service.ErrBadImprovement):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
