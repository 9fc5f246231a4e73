package neo4j

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/coffeegraph/coffeegraph/internal/graph"
)

type Config struct {
	URI          string
	Username     string
	Password     string
	Database     string
	QueryTimeout time.Duration
	MaxResults   int
}

// Store adapts the Bolt driver to the graph.Store contract. Pipeline reads
// run in read access mode, so an accepted candidate cannot mutate the graph
// even if the model slipped a write clause past validation.
type Store struct {
	driver     neo4j.DriverWithContext
	database   string
	timeout    time.Duration
	maxResults int
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, fmt.Errorf("graph uri is required")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create graph driver: %w", err)
	}

	store := &Store{
		driver:     driver,
		database:   strings.TrimSpace(cfg.Database),
		timeout:    cfg.QueryTimeout,
		maxResults: cfg.MaxResults,
	}

	verifyCtx, cancel := store.callContext(ctx)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}
	return store, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *Store) VerifyConnectivity(ctx context.Context) error {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return s.driver.VerifyConnectivity(callCtx)
}

// Validate runs the candidate under EXPLAIN. The planner parses and checks
// the query without touching data, so no stored entity changes and no rows
// are produced. Transport failures count as rejections.
func (s *Store) Validate(ctx context.Context, cypher string) (bool, string) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	session := s.driver.NewSession(callCtx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.database,
	})
	defer func() { _ = session.Close(callCtx) }()

	result, err := session.Run(callCtx, "EXPLAIN "+cypher, nil)
	if err != nil {
		return false, err.Error()
	}
	if _, err := result.Consume(callCtx); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// Run executes a previously validated query and normalizes driver values
// into graph.Record shapes. Validation and execution are separate round
// trips; a writer racing between the two can still surface an execution
// error here, which the pipeline treats as terminal.
func (s *Store) Run(ctx context.Context, cypher string, params map[string]any) ([]graph.Record, error) {
	return s.query(ctx, cypher, params, s.maxResults)
}

// query reads records with an optional row limit; 0 means unlimited.
func (s *Store) query(ctx context.Context, cypher string, params map[string]any, limit int) ([]graph.Record, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	session := s.driver.NewSession(callCtx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.database,
	})
	defer func() { _ = session.Close(callCtx) }()

	result, err := session.Run(callCtx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}

	records := make([]graph.Record, 0)
	for result.Next(callCtx) {
		record := result.Record()
		records = append(records, normalizeRecord(record.Keys, record.Values))
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("consume query results: %w", err)
	}
	return records, nil
}

// Write runs a mutating statement; used by the seed tool, never by the
// answering pipeline.
func (s *Store) Write(ctx context.Context, cypher string, params map[string]any) error {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	session := s.driver.NewSession(callCtx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer func() { _ = session.Close(callCtx) }()

	result, err := session.Run(callCtx, cypher, params)
	if err != nil {
		return fmt.Errorf("run statement: %w", err)
	}
	if _, err := result.Consume(callCtx); err != nil {
		return fmt.Errorf("consume statement: %w", err)
	}
	return nil
}

const statsQuery = `
MATCH (n)
WITH labels(n) AS labels, count(*) AS count
RETURN labels[0] AS type, count
UNION ALL
MATCH ()-[r]->()
WITH type(r) AS rel_type, count(*) AS count
RETURN rel_type AS type, count`

// Stats enumerates every node label and relationship type; the configured
// result cap applies to pipeline queries only, never here.
func (s *Store) Stats(ctx context.Context) (map[string]int64, error) {
	records, err := s.query(ctx, statsQuery, nil, 0)
	if err != nil {
		return nil, err
	}
	stats := make(map[string]int64, len(records))
	for _, record := range records {
		name, _ := record.Get("type")
		count, _ := record.Get("count")
		label, ok := name.(string)
		if !ok {
			continue
		}
		if value, ok := count.(int64); ok {
			stats[label] = value
		}
	}
	return stats, nil
}

func (s *Store) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}
