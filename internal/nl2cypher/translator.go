package nl2cypher

import (
	"context"
	"strings"
)

// OutOfScopeSentinel is the exact token the model emits for questions
// outside the coffee domain. The pipeline matches it literally.
const OutOfScopeSentinel = "OUT_OF_SCOPE"

type CandidateKind int

const (
	// KindGenerated carries a candidate Cypher query, fences stripped.
	KindGenerated CandidateKind = iota
	// KindOutOfScope means the model recognized a non-coffee question.
	KindOutOfScope
	// KindNone means the backend failed or returned nothing usable.
	KindNone
)

type Candidate struct {
	Kind   CandidateKind
	Cypher string
	// Reason carries the backend diagnostic for KindNone; it is internal
	// and never shown to users.
	Reason string
}

type Translator struct {
	client      Client
	temperature float64
}

func NewTranslator(client Client, temperature float64) *Translator {
	return &Translator{client: client, temperature: temperature}
}

// GenerateCypher asks the backend for one candidate query. On retry
// attempts priorHint carries the previous rejection reason verbatim.
// Backend errors are normalized to KindNone, never raised.
func (t *Translator) GenerateCypher(ctx context.Context, question, priorHint string) Candidate {
	raw, err := t.client.Complete(ctx, cypherSystemPrompt, cypherUserPrompt(question, priorHint), GenerationOptions{
		Temperature: t.temperature,
		MaxTokens:   500,
	})
	if err != nil {
		return Candidate{Kind: KindNone, Reason: err.Error()}
	}

	cypher := stripCodeFence(raw)
	if cypher == "" {
		return Candidate{Kind: KindNone, Reason: "model returned empty text"}
	}
	if cypher == OutOfScopeSentinel {
		return Candidate{Kind: KindOutOfScope}
	}
	return Candidate{Kind: KindGenerated, Cypher: cypher}
}

// FormatResults renders executed rows into prose. Errors and empty output
// are left to the caller, which falls back to deterministic rendering.
func (t *Translator) FormatResults(ctx context.Context, question string, resultsJSON []byte) (string, error) {
	answer, err := t.client.Complete(ctx, formatSystemPrompt, formatUserPrompt(question, resultsJSON), GenerationOptions{
		Temperature: 0.3,
		MaxTokens:   800,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func stripCodeFence(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```cypher")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}
