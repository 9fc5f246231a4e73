package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/coffeegraph/coffeegraph/internal/graph"
	"github.com/coffeegraph/coffeegraph/internal/nl2cypher"
)

type scriptedTranslator struct {
	candidates   []nl2cypher.Candidate
	hints        []string
	formatted    string
	formatErr    error
	formatCalled bool
	calls        int
}

func (s *scriptedTranslator) GenerateCypher(_ context.Context, _ string, priorHint string) nl2cypher.Candidate {
	s.hints = append(s.hints, priorHint)
	candidate := s.candidates[len(s.candidates)-1]
	if s.calls < len(s.candidates) {
		candidate = s.candidates[s.calls]
	}
	s.calls++
	return candidate
}

func (s *scriptedTranslator) FormatResults(_ context.Context, _ string, _ []byte) (string, error) {
	s.formatCalled = true
	if s.formatErr != nil {
		return "", s.formatErr
	}
	return s.formatted, nil
}

type fakeStore struct {
	validReasons []string // "" means valid
	validated    []string
	runResults   []graph.Record
	runErr       error
	ranQueries   []string
	validCalls   int
}

func (f *fakeStore) VerifyConnectivity(context.Context) error { return nil }

func (f *fakeStore) Validate(_ context.Context, cypher string) (bool, string) {
	f.validated = append(f.validated, cypher)
	reason := ""
	if f.validCalls < len(f.validReasons) {
		reason = f.validReasons[f.validCalls]
	}
	f.validCalls++
	return reason == "", reason
}

func (f *fakeStore) Run(_ context.Context, cypher string, _ map[string]any) ([]graph.Record, error) {
	f.ranQueries = append(f.ranQueries, cypher)
	if f.runErr != nil {
		return nil, f.runErr
	}
	return f.runResults, nil
}

func (f *fakeStore) Stats(context.Context) (map[string]int64, error) { return nil, nil }

func record(pairs ...any) graph.Record {
	rec := graph.Record{Values: map[string]any{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		key := pairs[i].(string)
		rec.Keys = append(rec.Keys, key)
		rec.Values[key] = pairs[i+1]
	}
	return rec
}

func generated(cypher string) nl2cypher.Candidate {
	return nl2cypher.Candidate{Kind: nl2cypher.KindGenerated, Cypher: cypher}
}

func TestAnswerHappyPath(t *testing.T) {
	store := &fakeStore{
		validReasons: []string{""},
		runResults: []graph.Record{
			record("name", "Espresso"),
			record("name", "Latte"),
		},
	}
	translator := &scriptedTranslator{
		candidates: []nl2cypher.Candidate{generated("MATCH (c:Coffee)-[:ORIGINATES_FROM]->(o:Country) WHERE o.code = 'italy' RETURN c.name")},
		formatted:  "Here are the Italian coffees:\n1. Espresso\n2. Latte",
	}
	engine := New(store, translator, nil, 0)

	outcome := engine.Answer(context.Background(), "What coffees are from Italy?")
	if !outcome.Success || outcome.Status != StatusAnswered {
		t.Fatalf("outcome = %+v", outcome)
	}
	if outcome.Cypher == "" || len(outcome.Results) != 2 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if !strings.HasPrefix(outcome.Answer, "Here are the Italian coffees:") {
		t.Fatalf("Answer = %q", outcome.Answer)
	}
	if !strings.Contains(outcome.Answer, "1. Espresso") || !strings.Contains(outcome.Answer, "2. Latte") {
		t.Fatalf("Answer = %q", outcome.Answer)
	}
}

func TestAnswerExhaustsAfterExactlyThreeAttempts(t *testing.T) {
	store := &fakeStore{validReasons: []string{"bad syntax", "bad syntax", "bad syntax"}}
	translator := &scriptedTranslator{
		candidates: []nl2cypher.Candidate{generated("MATCH bogus")},
	}
	engine := New(store, translator, nil, 0)

	outcome := engine.Answer(context.Background(), "What coffees are from Italy?")
	if translator.calls != 3 {
		t.Fatalf("translation attempts = %d, want 3", translator.calls)
	}
	if outcome.Status != StatusFailed || outcome.Success {
		t.Fatalf("outcome = %+v", outcome)
	}
	if outcome.Answer != FailureMessage {
		t.Fatalf("Answer = %q", outcome.Answer)
	}
	if len(outcome.Results) != 0 {
		t.Fatalf("failed outcome carries results: %+v", outcome.Results)
	}
	if len(store.ranQueries) != 0 {
		t.Fatal("exhausted pipeline must not execute any query")
	}
	if !strings.Contains(outcome.Error, "bad syntax") {
		t.Fatalf("Error = %q", outcome.Error)
	}
}

func TestAnswerOutOfScopeShortCircuits(t *testing.T) {
	store := &fakeStore{}
	translator := &scriptedTranslator{
		candidates: []nl2cypher.Candidate{{Kind: nl2cypher.KindOutOfScope}},
	}
	engine := New(store, translator, nil, 0)

	outcome := engine.Answer(context.Background(), "Tell me about cars")
	if outcome.Status != StatusRefused || outcome.Success {
		t.Fatalf("outcome = %+v", outcome)
	}
	if outcome.Answer != RefusalMessage {
		t.Fatalf("Answer = %q", outcome.Answer)
	}
	if outcome.Cypher != "" || len(outcome.Results) != 0 {
		t.Fatalf("refused outcome carries query artifacts: %+v", outcome)
	}
	if len(store.validated) != 0 || len(store.ranQueries) != 0 {
		t.Fatal("validator and executor must never run for out-of-scope questions")
	}
	if translator.calls != 1 {
		t.Fatalf("translation attempts = %d, want 1", translator.calls)
	}
}

func TestAnswerThreadsRejectionReasonIntoNextAttempt(t *testing.T) {
	reason := "Variable `o` not defined (line 1, column 52)"
	store := &fakeStore{validReasons: []string{reason, ""}}
	translator := &scriptedTranslator{
		candidates: []nl2cypher.Candidate{
			generated("MATCH (c:Coffee) WHERE o.code = 'italy' RETURN c.name"),
			generated("MATCH (c:Coffee)-[:ORIGINATES_FROM]->(o:Country) WHERE o.code = 'italy' RETURN c.name"),
		},
		formatted: "One Italian coffee:\n1. Espresso",
	}
	store.runResults = []graph.Record{record("name", "Espresso")}
	engine := New(store, translator, nil, 0)

	outcome := engine.Answer(context.Background(), "What coffees are from Italy?")
	if !outcome.Success {
		t.Fatalf("outcome = %+v", outcome)
	}
	if len(translator.hints) != 2 {
		t.Fatalf("hints = %v", translator.hints)
	}
	if translator.hints[0] != "" {
		t.Fatalf("first attempt hint = %q", translator.hints[0])
	}
	if translator.hints[1] != reason {
		t.Fatalf("second attempt hint = %q, want %q", translator.hints[1], reason)
	}
}

func TestAnswerNoQueryGeneratedHint(t *testing.T) {
	store := &fakeStore{validReasons: []string{""}}
	translator := &scriptedTranslator{
		candidates: []nl2cypher.Candidate{
			{Kind: nl2cypher.KindNone, Reason: "timeout"},
			generated("MATCH (c:Coffee) RETURN c.name"),
		},
		formatted: "All coffees:\n1. Espresso",
	}
	store.runResults = []graph.Record{record("name", "Espresso")}
	engine := New(store, translator, nil, 0)

	outcome := engine.Answer(context.Background(), "list coffees")
	if !outcome.Success {
		t.Fatalf("outcome = %+v", outcome)
	}
	if translator.hints[1] != "no query generated" {
		t.Fatalf("second attempt hint = %q", translator.hints[1])
	}
}

func TestAnswerFirstValidCandidateWins(t *testing.T) {
	store := &fakeStore{validReasons: []string{""}}
	store.runResults = []graph.Record{record("name", "Espresso")}
	translator := &scriptedTranslator{
		candidates: []nl2cypher.Candidate{generated("MATCH (c:Coffee) RETURN c.name")},
		formatted:  "Espresso is the only match.",
	}
	engine := New(store, translator, nil, 0)

	outcome := engine.Answer(context.Background(), "list coffees")
	if translator.calls != 1 {
		t.Fatalf("translation attempts = %d, want 1", translator.calls)
	}
	if outcome.Cypher != "MATCH (c:Coffee) RETURN c.name" {
		t.Fatalf("Cypher = %q", outcome.Cypher)
	}
}

func TestAnswerEmptyResultsSkipsFormatter(t *testing.T) {
	store := &fakeStore{validReasons: []string{""}, runResults: []graph.Record{}}
	translator := &scriptedTranslator{
		candidates: []nl2cypher.Candidate{generated("MATCH (c:Coffee) WHERE c.code = 'decaf' RETURN c.name")},
		formatted:  "should never be used",
	}
	engine := New(store, translator, nil, 0)

	outcome := engine.Answer(context.Background(), "decaf coffees?")
	if !outcome.Success {
		t.Fatalf("outcome = %+v", outcome)
	}
	if outcome.Answer != NoResultsMessage {
		t.Fatalf("Answer = %q", outcome.Answer)
	}
	if translator.formatCalled {
		t.Fatal("formatter must never be invoked on an empty result sequence")
	}
}

func TestAnswerExecutionFailureIsTerminal(t *testing.T) {
	store := &fakeStore{validReasons: []string{""}, runErr: errors.New("connection reset")}
	translator := &scriptedTranslator{
		candidates: []nl2cypher.Candidate{generated("MATCH (c:Coffee) RETURN c.name")},
	}
	engine := New(store, translator, nil, 0)

	outcome := engine.Answer(context.Background(), "list coffees")
	if outcome.Status != StatusFailed || outcome.Success {
		t.Fatalf("outcome = %+v", outcome)
	}
	if outcome.Answer != FailureMessage {
		t.Fatalf("Answer = %q", outcome.Answer)
	}
	if len(outcome.Results) != 0 {
		t.Fatal("failed outcome must not carry results")
	}
	// Execution is never retried.
	if translator.calls != 1 || len(store.ranQueries) != 1 {
		t.Fatalf("calls = %d, runs = %d", translator.calls, len(store.ranQueries))
	}
}

func TestAnswerFormatterFailureUsesFallback(t *testing.T) {
	store := &fakeStore{validReasons: []string{""}}
	store.runResults = []graph.Record{record("name", "Espresso")}
	translator := &scriptedTranslator{
		candidates: []nl2cypher.Candidate{generated("MATCH (c:Coffee) RETURN c.name")},
		formatErr:  errors.New("backend unavailable"),
	}
	engine := New(store, translator, nil, 0)

	outcome := engine.Answer(context.Background(), "list coffees")
	if !outcome.Success {
		t.Fatalf("formatting failure must not fail the outcome: %+v", outcome)
	}
	if outcome.Answer != "Result: Espresso" {
		t.Fatalf("Answer = %q", outcome.Answer)
	}
}

func TestAnswerIdempotentForFixedBackendResponses(t *testing.T) {
	run := func() Outcome {
		store := &fakeStore{validReasons: []string{"missing label", ""}}
		store.runResults = []graph.Record{record("name", "Espresso")}
		translator := &scriptedTranslator{
			candidates: []nl2cypher.Candidate{
				generated("MATCH bogus"),
				generated("MATCH (c:Coffee) RETURN c.name"),
			},
			formatted: "Espresso is the only match.",
		}
		return New(store, translator, nil, 0).Answer(context.Background(), "list coffees")
	}

	first := run()
	second := run()
	if first.Success != second.Success || first.Cypher != second.Cypher || first.Answer != second.Answer {
		t.Fatalf("outcomes differ:\n%+v\n%+v", first, second)
	}
}
