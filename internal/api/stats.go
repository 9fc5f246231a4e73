package api

import "net/http"

func handleGraphStats(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Store == nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "GRAPH_UNAVAILABLE", "graph store is not configured", false)
		return
	}
	stats, err := deps.Store.Stats(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "GRAPH_UNAVAILABLE", err.Error(), true)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}
