// Package api exposes the question answering pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coffeegraph/coffeegraph/internal/config"
	"github.com/coffeegraph/coffeegraph/internal/engine"
	"github.com/coffeegraph/coffeegraph/internal/graph"
	"github.com/coffeegraph/coffeegraph/internal/history"
	"github.com/coffeegraph/coffeegraph/internal/observability"
)

type ReadinessCheck func(ctx context.Context) error

// AnswerEngine is the pipeline entry point the handler depends on.
type AnswerEngine interface {
	Answer(ctx context.Context, question string) engine.Outcome
}

// Dependencies wires the handler. History is nil when transcript storage
// is disabled; every other field is required.
type Dependencies struct {
	Logger            *slog.Logger
	Engine            AnswerEngine
	History           history.Repository
	Store             graph.Store
	Readiness         ReadinessCheck
	DependencyTimeout time.Duration
	HistoryLimit      int
}

func NewHandler(cfg config.Config, deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, r *http.Request) {
		handleHealth(cfg, deps, w, r)
	})

	mux.HandleFunc("GET /v1/ready", func(w http.ResponseWriter, r *http.Request) {
		if deps.Readiness == nil {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), dependencyTimeout(deps))
		defer cancel()
		if err := deps.Readiness(ctx); err != nil {
			writeError(r.Context(), w, http.StatusServiceUnavailable, "NOT_READY", err.Error(), true)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	})

	mux.Handle("GET /v1/metrics", promhttp.Handler())

	mux.HandleFunc("POST /v1/ask", func(w http.ResponseWriter, r *http.Request) {
		handleAsk(deps, w, r)
	})
	mux.HandleFunc("GET /v1/history", func(w http.ResponseWriter, r *http.Request) {
		handleHistory(deps, w, r)
	})
	mux.HandleFunc("POST /v1/history/clear", func(w http.ResponseWriter, r *http.Request) {
		handleHistoryClear(deps, w, r)
	})
	mux.HandleFunc("GET /v1/samples", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"samples": sampleQuestions})
	})
	mux.HandleFunc("GET /v1/graph/stats", func(w http.ResponseWriter, r *http.Request) {
		handleGraphStats(deps, w, r)
	})

	middlewares := []func(http.Handler) http.Handler{
		observability.TraceMiddleware,
		observability.MetricsMiddleware,
	}
	if deps.Logger != nil {
		middlewares = append(middlewares, observability.LoggingMiddleware(deps.Logger))
	}
	return chain(mux, middlewares...)
}

// handleHealth reports degraded instead of failing when the graph store is
// unreachable, so load balancers keep routing and users see the error in
// the payload.
func handleHealth(cfg config.Config, deps Dependencies, w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status":  "healthy",
		"service": cfg.Service.Name,
	}
	if deps.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), dependencyTimeout(deps))
		defer cancel()
		if err := deps.Store.VerifyConnectivity(ctx); err != nil {
			payload["status"] = "degraded"
			payload["graph_error"] = err.Error()
		} else {
			payload["graph_connected"] = true
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func CheckGraphStore(store graph.Store) ReadinessCheck {
	return func(ctx context.Context) error {
		if store == nil {
			return errors.New("graph store is not configured")
		}
		return store.VerifyConnectivity(ctx)
	}
}

func dependencyTimeout(deps Dependencies) time.Duration {
	if deps.DependencyTimeout > 0 {
		return deps.DependencyTimeout
	}
	return 2 * time.Second
}

func chain(base http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	wrapped := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, code, message string, retryable bool) {
	writeJSON(w, status, map[string]any{
		"error_code": code,
		"message":    message,
		"retryable":  retryable,
		"trace_id":   observability.TraceIDFromContext(ctx),
	})
}
