// Package history stores per-session question/answer exchanges.
package history

import (
	"context"
	"time"
)

// Entry is one question/answer exchange in a session transcript.
type Entry struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists session transcripts. Append trims each session to its
// retention limit; List returns entries in chronological order.
type Repository interface {
	Append(ctx context.Context, sessionID string, entry Entry) error
	List(ctx context.Context, sessionID string, limit int) ([]Entry, error)
	Clear(ctx context.Context, sessionID string) error
}
