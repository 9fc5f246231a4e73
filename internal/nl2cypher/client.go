package nl2cypher

import "context"

type GenerationOptions struct {
	Temperature float64
	MaxTokens   int
}

// Client is the single capability both providers implement: one stateless
// chat-style completion with the provider's own request timeout. The
// provider is chosen once at construction and never branched on again.
type Client interface {
	Complete(ctx context.Context, system, user string, opts GenerationOptions) (string, error)
}
