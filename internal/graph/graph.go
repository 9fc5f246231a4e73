package graph

import (
	"bytes"
	"context"
	"encoding/json"
)

// Record is one row of query output. Keys preserves the column order the
// query declared; Values holds scalars, flat property maps, or ordered
// slices of property maps.
type Record struct {
	Keys   []string
	Values map[string]any
}

func (r Record) Get(key string) (any, bool) {
	value, ok := r.Values[key]
	return value, ok
}

// MarshalJSON emits fields in query column order so that downstream
// rendering and history payloads are stable across runs.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(r.Values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Store is the read-side contract the answering pipeline depends on.
// Validate is a dry run: it must never mutate data and never consume the
// executor's result budget. A transport failure during validation is
// reported as an invalid candidate, not as an error.
type Store interface {
	VerifyConnectivity(ctx context.Context) error
	Validate(ctx context.Context, cypher string) (bool, string)
	Run(ctx context.Context, cypher string, params map[string]any) ([]Record, error)
	Stats(ctx context.Context) (map[string]int64, error)
}

// Writer is the bootstrap-side contract used by the seed tool only.
type Writer interface {
	VerifyConnectivity(ctx context.Context) error
	Write(ctx context.Context, cypher string, params map[string]any) error
}
