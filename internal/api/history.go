package api

import (
	"net/http"

	"github.com/coffeegraph/coffeegraph/internal/history"
)

func handleHistory(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.History == nil {
		writeJSON(w, http.StatusOK, map[string]any{"history": []history.Entry{}})
		return
	}

	sessionID := ensureSession(w, r)
	entries, err := deps.History.List(r.Context(), sessionID, deps.HistoryLimit)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "HISTORY_UNAVAILABLE", err.Error(), true)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": entries})
}

func handleHistoryClear(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.History == nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}

	sessionID := ensureSession(w, r)
	if err := deps.History.Clear(r.Context(), sessionID); err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "HISTORY_UNAVAILABLE", err.Error(), true)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
