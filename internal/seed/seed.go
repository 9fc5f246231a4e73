// Package seed bootstraps the coffee knowledge graph.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/coffeegraph/coffeegraph/internal/graph"
)

//go:embed schema.cypher
var embeddedSchema string

const wipeStatement = "MATCH (n) DETACH DELETE n"

// EmbeddedSchema returns the seed script compiled into the binary.
func EmbeddedSchema() string {
	return embeddedSchema
}

// Statements splits a Cypher script on semicolons, dropping blanks and
// line comments so each returned statement is executable as-is.
func Statements(script string) []string {
	parts := strings.Split(script, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		lines := strings.Split(part, "\n")
		kept := make([]string, 0, len(lines))
		for _, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), "//") {
				continue
			}
			kept = append(kept, line)
		}
		statement := strings.TrimSpace(strings.Join(kept, "\n"))
		if statement == "" {
			continue
		}
		statements = append(statements, statement)
	}
	return statements
}

type Runner struct {
	writer graph.Writer
	logger *slog.Logger
}

func NewRunner(writer graph.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{writer: writer, logger: logger}
}

// WaitForStore polls connectivity until the graph accepts connections or
// the attempt budget runs out. Neo4j containers take a while to come up.
func (r *Runner) WaitForStore(ctx context.Context, maxAttempts int, interval time.Duration) error {
	if maxAttempts <= 0 {
		maxAttempts = 30
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if lastErr = r.writer.VerifyConnectivity(ctx); lastErr == nil {
			return nil
		}
		r.logger.InfoContext(ctx, "graph not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxAttempts),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("graph not ready after %d attempts: %w", maxAttempts, lastErr)
}

// Apply executes the seed script statement by statement. With wipe set it
// first deletes every node and relationship in the database.
func (r *Runner) Apply(ctx context.Context, script string, wipe bool) (int, error) {
	if wipe {
		r.logger.InfoContext(ctx, "wiping existing graph data")
		if err := r.writer.Write(ctx, wipeStatement, nil); err != nil {
			return 0, fmt.Errorf("wipe graph: %w", err)
		}
	}

	statements := Statements(script)
	if len(statements) == 0 {
		return 0, fmt.Errorf("seed script contains no statements")
	}

	for i, statement := range statements {
		if err := r.writer.Write(ctx, statement, nil); err != nil {
			return i, fmt.Errorf("execute seed statement %d/%d: %w", i+1, len(statements), err)
		}
	}
	r.logger.InfoContext(ctx, "seed applied", slog.Int("statements", len(statements)))
	return len(statements), nil
}
