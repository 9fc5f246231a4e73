package nl2cypher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiCompleteDecodesParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1beta/models/test-model:generateContent") {
			t.Fatalf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Fatalf("key = %q", got)
		}
		var payload geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if len(payload.Contents) != 1 || len(payload.Contents[0].Parts) != 1 {
			t.Fatalf("contents = %#v", payload.Contents)
		}
		if !strings.Contains(payload.Contents[0].Parts[0].Text, "user text") {
			t.Fatalf("prompt = %q", payload.Contents[0].Parts[0].Text)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "MATCH (c:Coffee) "},
					{"text": "RETURN c.name"},
				}}},
			},
		})
	}))
	defer server.Close()

	client, err := NewGeminiClient(GeminiConfig{BaseURL: server.URL, APIKey: "test-key", Model: "test-model"})
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}
	got, err := client.Complete(context.Background(), "system text", "user text", GenerationOptions{Temperature: 0.1, MaxTokens: 500})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "MATCH (c:Coffee) RETURN c.name" {
		t.Fatalf("Complete() = %q", got)
	}
}

func TestGeminiCompleteEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client, err := NewGeminiClient(GeminiConfig{BaseURL: server.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}
	if _, err := client.Complete(context.Background(), "system", "user", GenerationOptions{}); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	if _, err := NewGeminiClient(GeminiConfig{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
