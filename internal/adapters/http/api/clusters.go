package api

import "net/http"

// ClustersHandler handles driver style cluster requests.
type ClustersHandler struct {
	deps Dependencies
}

// NewClustersHandler creates a new clusters handler.
func NewClustersHandler(deps Dependencies) *ClustersHandler {
	return &ClustersHandler{deps: deps}
}

// HandleGetClusters handles GET /api/clusters requests.
func (h *ClustersHandler) HandleGetClusters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	clusters, err := h.deps.Clusters(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clusters)
}
