package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func openRouterTestResponse(content string) string {
	return `{
		"id": "gen-1",
		"model": "anthropic/claude-3.5-sonnet",
		"choices": [{"message": {"role": "assistant", "content": ` + mustJSON(content) + `}}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestClient(serverURL string) *OpenRouterClient {
	return NewOpenRouterClient(OpenRouterConfig{
		APIKey:     "test-key",
		BaseURL:    serverURL,
		RetryDelay: time.Millisecond,
	})
}

func TestOpenRouterChat(t *testing.T) {
	var gotAuth, gotTitle string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTitle = r.Header.Get("X-Title")
		w.Write([]byte(openRouterTestResponse("hello from model")))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if result.Content != "hello from model" {
		t.Fatalf("content = %q", result.Content)
	}
	if !result.Success {
		t.Fatal("expected success")
	}
	if result.TotalTokens != 15 {
		t.Fatalf("total tokens = %d", result.TotalTokens)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotTitle != "Sonomancer" {
		t.Fatalf("x-title header = %q", gotTitle)
	}
}

func TestOpenRouterRetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(openRouterTestResponse("recovered")))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if result.Content != "recovered" {
		t.Fatalf("content = %q", result.Content)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestOpenRouterDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad model"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("unexpected error %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single attempt, got %d", calls.Load())
	}
}

func TestOpenRouterExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "max retries") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestOpenRouterUsesDefaultModel(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openRouterRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		w.Write([]byte(openRouterTestResponse("ok")))
	}))
	defer srv.Close()

	client := NewOpenRouterClient(OpenRouterConfig{
		APIKey:       "k",
		BaseURL:      srv.URL,
		DefaultModel: "test/model-1",
		RetryDelay:   time.Millisecond,
	})
	if _, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	}); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if gotModel != "test/model-1" {
		t.Fatalf("model = %q", gotModel)
	}
}
