package neo4j

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/coffeegraph/coffeegraph/internal/graph"
)

// normalizeRecord flattens driver composites into the value shapes the
// pipeline understands: nodes and relationships become their property maps,
// collections normalize element-wise, scalars pass through unchanged.
func normalizeRecord(keys []string, values []any) graph.Record {
	normalized := make(map[string]any, len(keys))
	for i, key := range keys {
		if i >= len(values) {
			break
		}
		normalized[key] = normalizeValue(values[i])
	}
	return graph.Record{Keys: keys, Values: normalized}
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case dbtype.Node:
		return copyProps(v.Props)
	case dbtype.Relationship:
		return copyProps(v.Props)
	case dbtype.Path:
		nodes := make([]any, 0, len(v.Nodes))
		for _, node := range v.Nodes {
			nodes = append(nodes, copyProps(node.Props))
		}
		return nodes
	case []any:
		items := make([]any, 0, len(v))
		for _, item := range v {
			items = append(items, normalizeValue(item))
		}
		return items
	default:
		return value
	}
}

func copyProps(props map[string]any) map[string]any {
	copied := make(map[string]any, len(props))
	for key, value := range props {
		copied[key] = value
	}
	return copied
}
