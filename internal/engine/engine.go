package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/coffeegraph/coffeegraph/internal/graph"
	"github.com/coffeegraph/coffeegraph/internal/nl2cypher"
	"github.com/coffeegraph/coffeegraph/internal/observability"
)

// DefaultMaxAttempts bounds the translate/validate loop. Retries cover
// translation and validation only; execution failures are terminal.
const DefaultMaxAttempts = 3

const (
	// FailureMessage is the one neutral phrase users see for any terminal
	// failure; internal diagnostics go to Outcome.Error instead.
	FailureMessage = "I'm not able to answer that right now."
	// RefusalMessage answers questions outside the coffee domain.
	RefusalMessage = "I can only answer questions about coffee beverages. Please ask me something about coffee."
	// NoResultsMessage substitutes for the formatter on empty result sets.
	NoResultsMessage = "I couldn't find any results for your question. The query returned no data."
)

type Status string

const (
	StatusAnswered Status = "answered"
	StatusRefused  Status = "refused"
	StatusFailed   Status = "failed"
)

// Outcome is the terminal artifact of one pipeline invocation, constructed
// exactly once and immutable afterwards. Success is true only for answered
// outcomes; refused is an intentional non-answer, not a failure.
type Outcome struct {
	Question string         `json:"question"`
	Cypher   string         `json:"cypher,omitempty"`
	Results  []graph.Record `json:"results,omitempty"`
	Answer   string         `json:"answer"`
	Status   Status         `json:"status"`
	Success  bool           `json:"success"`
	Error    string         `json:"error,omitempty"`
}

type Translator interface {
	GenerateCypher(ctx context.Context, question, priorHint string) nl2cypher.Candidate
	FormatResults(ctx context.Context, question string, resultsJSON []byte) (string, error)
}

type Engine struct {
	store       graph.Store
	translator  Translator
	logger      *slog.Logger
	maxAttempts int
}

func New(store graph.Store, translator Translator, logger *slog.Logger, maxAttempts int) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Engine{
		store:       store,
		translator:  translator,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// attempt is the immutable per-iteration record of the retry loop: which
// attempt is next and why the previous one was rejected.
type attempt struct {
	index     int
	priorHint string
}

// Answer runs the full pipeline for one question: translate, validate with
// feedback retries, execute, format. All failures come back as data; this
// method never panics on collaborator errors and never raises.
func (e *Engine) Answer(ctx context.Context, question string) Outcome {
	start := time.Now()
	outcome := e.answer(ctx, question)
	observability.ObserveAnswer(string(outcome.Status), time.Since(start))
	return outcome
}

func (e *Engine) answer(ctx context.Context, question string) Outcome {
	accepted := ""
	lastError := ""

	current := attempt{index: 1}
	for current.index <= e.maxAttempts {
		observability.ObserveTranslationAttempt()
		candidate := e.translator.GenerateCypher(ctx, question, current.priorHint)

		switch candidate.Kind {
		case nl2cypher.KindOutOfScope:
			// Recognized non-coffee question: skip validation and
			// execution entirely and answer with the fixed refusal.
			observability.ObserveOutOfScope()
			e.logger.InfoContext(ctx, "question out of scope", slog.String("question", question))
			return Outcome{
				Question: question,
				Answer:   RefusalMessage,
				Status:   StatusRefused,
			}
		case nl2cypher.KindNone:
			lastError = "no query generated"
			e.logger.WarnContext(ctx, "translation produced no query",
				slog.Int("attempt", current.index),
				slog.String("reason", candidate.Reason),
			)
			current = attempt{index: current.index + 1, priorHint: lastError}
			continue
		}

		valid, reason := e.store.Validate(ctx, candidate.Cypher)
		if valid {
			accepted = candidate.Cypher
			break
		}
		observability.ObserveValidationFailure()
		lastError = reason
		e.logger.WarnContext(ctx, "candidate query rejected",
			slog.Int("attempt", current.index),
			slog.String("cypher", candidate.Cypher),
			slog.String("reason", reason),
		)
		current = attempt{index: current.index + 1, priorHint: reason}
	}

	if accepted == "" {
		e.logger.ErrorContext(ctx, "translation attempts exhausted",
			slog.Int("attempts", e.maxAttempts),
			slog.String("last_error", lastError),
		)
		return Outcome{
			Question: question,
			Answer:   FailureMessage,
			Status:   StatusFailed,
			Error:    "translation attempts exhausted: " + lastError,
		}
	}

	results, err := e.store.Run(ctx, accepted, nil)
	if err != nil {
		e.logger.ErrorContext(ctx, "query execution failed",
			slog.String("cypher", accepted),
			slog.Any("error", err),
		)
		return Outcome{
			Question: question,
			Cypher:   accepted,
			Answer:   FailureMessage,
			Status:   StatusFailed,
			Error:    err.Error(),
		}
	}

	answer := e.renderAnswer(ctx, question, results)
	return Outcome{
		Question: question,
		Cypher:   accepted,
		Results:  results,
		Answer:   answer,
		Status:   StatusAnswered,
		Success:  true,
	}
}

// renderAnswer never reaches the model for an empty result set, and falls
// back to deterministic rendering when the model fails or returns nothing.
func (e *Engine) renderAnswer(ctx context.Context, question string, results []graph.Record) string {
	if len(results) == 0 {
		return NoResultsMessage
	}

	resultsJSON, err := json.Marshal(results)
	if err == nil {
		answer, formatErr := e.translator.FormatResults(ctx, question, resultsJSON)
		if formatErr == nil && strings.TrimSpace(answer) != "" {
			return strings.TrimSpace(answer)
		}
		if formatErr != nil {
			e.logger.WarnContext(ctx, "answer formatting failed, using fallback", slog.Any("error", formatErr))
		}
	}
	observability.ObserveFallbackFormatter()
	return FallbackFormat(results)
}
