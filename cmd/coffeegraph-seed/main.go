package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/coffeegraph/coffeegraph/internal/config"
	neo4jstore "github.com/coffeegraph/coffeegraph/internal/graph/neo4j"
	"github.com/coffeegraph/coffeegraph/internal/observability"
	"github.com/coffeegraph/coffeegraph/internal/seed"
)

func main() {
	wipe := flag.Bool("wipe", false, "delete all existing graph data before seeding")
	waitAttempts := flag.Int("wait-attempts", 30, "connection attempts before giving up")
	flag.Parse()

	cfg, err := config.LoadFromEnv("coffeegraph-seed")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)
	ctx := context.Background()

	store, err := neo4jstore.New(ctx, neo4jstore.Config{
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
	defer func() { _ = store.Close(ctx) }()

	runner := seed.NewRunner(store, logger)
	if err := runner.WaitForStore(ctx, *waitAttempts, 2*time.Second); err != nil {
		logger.Error("graph store never became ready", slog.Any("error", err))
		os.Exit(1)
	}

	script := seed.EmbeddedSchema()
	if cfg.Seed.Endpoint != "" {
		logger.Info("fetching seed script from object store",
			slog.String("bucket", cfg.Seed.Bucket),
			slog.String("object", cfg.Seed.Object),
		)
		script, err = seed.FetchScript(ctx, seed.ObjectStoreConfig{
			Endpoint:        cfg.Seed.Endpoint,
			Region:          cfg.Seed.Region,
			Bucket:          cfg.Seed.Bucket,
			Object:          cfg.Seed.Object,
			AccessKeyID:     cfg.Seed.AccessKeyID,
			SecretAccessKey: cfg.Seed.SecretAccessKey,
			UseSSL:          cfg.Seed.UseSSL,
		})
		if err != nil {
			logger.Error("failed to fetch seed script", slog.Any("error", err))
			os.Exit(1)
		}
	}

	count, err := runner.Apply(ctx, script, *wipe)
	if err != nil {
		logger.Error("seed failed", slog.Int("statements_applied", count), slog.Any("error", err))
		os.Exit(1)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		logger.Warn("seed applied but stats query failed", slog.Any("error", err))
		return
	}
	logger.Info("seed complete",
		slog.Int("statements", count),
		slog.Int64("coffees", stats["Coffee"]),
		slog.Int64("countries", stats["Country"]),
	)
}
