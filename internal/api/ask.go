package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coffeegraph/coffeegraph/internal/engine"
	"github.com/coffeegraph/coffeegraph/internal/history"
)

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	engine.Outcome
	Timestamp string `json:"timestamp"`
}

func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "request body must be JSON with a question field", false)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "EMPTY_QUESTION", "please provide a question", false)
		return
	}

	sessionID := ensureSession(w, r)
	outcome := deps.Engine.Answer(r.Context(), question)

	// Transcript storage is best effort; a history failure never hides a
	// computed answer from the user.
	if deps.History != nil {
		if err := deps.History.Append(r.Context(), sessionID, history.Entry{
			Question: outcome.Question,
			Answer:   outcome.Answer,
			Status:   string(outcome.Status),
		}); err != nil && deps.Logger != nil {
			deps.Logger.WarnContext(r.Context(), "history append failed",
				slog.String("session_id", sessionID),
				slog.Any("error", err),
			)
		}
	}

	writeJSON(w, http.StatusOK, askResponse{
		Outcome:   outcome,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
