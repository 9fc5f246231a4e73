package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coffeegraph/coffeegraph/internal/history"
)

// Repository stores session transcripts in the chat_history table. Each
// Append trims the session to the retention limit so a transcript never
// grows past it.
type Repository struct {
	db        *sql.DB
	retention int
}

func NewRepository(db *sql.DB, retention int) *Repository {
	if retention <= 0 {
		retention = 20
	}
	return &Repository{db: db, retention: retention}
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping history db: %w", err)
	}
	return nil
}

func (r *Repository) Append(ctx context.Context, sessionID string, entry history.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert := `
INSERT INTO chat_history (session_id, question, answer, status)
VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insert, sessionID, entry.Question, entry.Answer, entry.Status); err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}

	trim := `
DELETE FROM chat_history
WHERE session_id = $1 AND id NOT IN (
	SELECT id FROM chat_history
	WHERE session_id = $1
	ORDER BY id DESC
	LIMIT $2
)`
	if _, err := tx.ExecContext(ctx, trim, sessionID, r.retention); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history tx: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, sessionID string, limit int) ([]history.Entry, error) {
	if limit <= 0 || limit > r.retention {
		limit = r.retention
	}

	query := `
SELECT question, answer, status, created_at
FROM chat_history
WHERE session_id = $1
ORDER BY id DESC
LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]history.Entry, 0)
	for rows.Next() {
		var entry history.Entry
		if err := rows.Scan(&entry.Question, &entry.Answer, &entry.Status, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}

	// Newest-first from the query; callers want chronological order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func (r *Repository) Clear(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `
DELETE FROM chat_history
WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
