package engine

import (
	"fmt"
	"strings"

	"github.com/coffeegraph/coffeegraph/internal/graph"
)

// FallbackFormat renders results without the language model. The output is
// fully deterministic: single record with a single field becomes
// "Result: <value>"; anything else becomes one line per record, 1-indexed
// when there is more than one record.
func FallbackFormat(results []graph.Record) string {
	if len(results) == 0 {
		return "No results found."
	}

	if len(results) == 1 && len(results[0].Keys) == 1 {
		value := results[0].Values[results[0].Keys[0]]
		return fmt.Sprintf("Result: %v", formatValue(value))
	}

	lines := make([]string, 0, len(results))
	for i, record := range results {
		if len(results) > 1 {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, formatRecord(record)))
		} else {
			lines = append(lines, formatRecord(record))
		}
	}
	return strings.Join(lines, "\n")
}

func formatRecord(record graph.Record) string {
	parts := make([]string, 0, len(record.Keys))
	for _, key := range record.Keys {
		value, ok := record.Values[key]
		if !ok || value == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", key, formatValue(value)))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%v", record.Values)
	}
	return strings.Join(parts, ", ")
}

// formatValue prefers the human-readable fields of a property bag: name
// first, then description, else the whole map.
func formatValue(value any) any {
	props, ok := value.(map[string]any)
	if !ok {
		return value
	}
	if name, ok := props["name"]; ok && name != nil {
		return name
	}
	if description, ok := props["description"]; ok && description != nil {
		return description
	}
	return props
}
