package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coffeegraph/coffeegraph/internal/api"
	"github.com/coffeegraph/coffeegraph/internal/config"
	"github.com/coffeegraph/coffeegraph/internal/engine"
	neo4jstore "github.com/coffeegraph/coffeegraph/internal/graph/neo4j"
	historypostgres "github.com/coffeegraph/coffeegraph/internal/history/postgres"
	"github.com/coffeegraph/coffeegraph/internal/nl2cypher"
	"github.com/coffeegraph/coffeegraph/internal/observability"
)

func main() {
	cfg, err := config.LoadFromEnv("coffeegraph-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	store, err := neo4jstore.New(context.Background(), neo4jstore.Config{
		URI:          cfg.Graph.URI,
		Username:     cfg.Graph.Username,
		Password:     cfg.Graph.Password,
		Database:     cfg.Graph.Database,
		QueryTimeout: cfg.Graph.QueryTimeout,
		MaxResults:   cfg.Graph.MaxResults,
	})
	if err != nil {
		logger.Error("failed to connect to graph store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = store.Close(context.Background()) }()

	client, err := newAIClient(cfg)
	if err != nil {
		logger.Error("failed to initialize ai client", slog.Any("error", err))
		os.Exit(1)
	}
	translator := nl2cypher.NewTranslator(client, cfg.AI.Temperature)
	answerEngine := engine.New(store, translator, logger, cfg.AI.MaxAttempts)

	deps := api.Dependencies{
		Logger:            logger,
		Engine:            answerEngine,
		Store:             store,
		Readiness:         api.CheckGraphStore(store),
		DependencyTimeout: time.Second,
		HistoryLimit:      cfg.History.Retention,
	}

	if cfg.History.Enabled {
		historyDB, err := historypostgres.Open(context.Background(), historypostgres.DBConfig{
			DSN:             cfg.History.DSN,
			MaxOpenConns:    cfg.History.MaxOpenConns,
			MaxIdleConns:    cfg.History.MaxIdleConns,
			ConnMaxIdleTime: cfg.History.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.History.ConnMaxLifetime,
		})
		if err != nil {
			logger.Error("failed to open history db", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = historyDB.Close() }()
		deps.History = historypostgres.NewRepository(historyDB, cfg.History.Retention)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server",
			slog.String("addr", cfg.HTTP.Address),
			slog.String("ai_provider", cfg.AI.Provider),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// newAIClient selects the language-model backend once at startup.
func newAIClient(cfg config.Config) (nl2cypher.Client, error) {
	switch cfg.AI.Provider {
	case "gemini":
		return nl2cypher.NewGeminiClient(nl2cypher.GeminiConfig{
			BaseURL: cfg.AI.GeminiURL,
			APIKey:  cfg.AI.GeminiKey,
			Model:   cfg.AI.GeminiModel,
			Timeout: cfg.AI.Timeout,
		})
	default:
		return nl2cypher.NewOpenRouterClient(nl2cypher.OpenRouterConfig{
			BaseURL: cfg.AI.OpenRouterURL,
			APIKey:  cfg.AI.OpenRouterKey,
			Model:   cfg.AI.OpenRouterModel,
			Timeout: cfg.AI.Timeout,
		})
	}
}
