package providers

import (
	"context"
	"testing"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	mock := NewMockClient()
	r.RegisterLLM("mock", mock)

	got, err := r.GetLLM("mock")
	if err != nil {
		t.Fatalf("GetLLM: %v", err)
	}
	if got != mock {
		t.Fatal("expected same client instance")
	}

	if _, err := r.GetLLM("missing"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !r.HasLLM("mock") || r.HasLLM("missing") {
		t.Fatal("HasLLM mismatch")
	}
	if names := r.ListLLM(); len(names) != 1 || names[0] != "mock" {
		t.Fatalf("ListLLM = %v", names)
	}
}

func TestRegistryReload(t *testing.T) {
	r := NewRegistry()
	r.Reload(RegistryConfig{
		LLMProviders: map[string]LLMProviderConfig{
			"primary": {Type: "openrouter", Model: "model-a", APIKey: "key-a", Enabled: true},
			"disabled": {Type: "openrouter", Model: "model-b", APIKey: "key-b", Enabled: false},
			"keyless": {Type: "openrouter", Model: "model-c", Enabled: true},
		},
	})

	if !r.HasLLM("primary") {
		t.Fatal("expected primary registered")
	}
	if r.HasLLM("disabled") {
		t.Fatal("disabled provider must not register")
	}
	if r.HasLLM("keyless") {
		t.Fatal("provider without api key must not register")
	}

	// Removing from config unregisters.
	r.Reload(RegistryConfig{LLMProviders: map[string]LLMProviderConfig{}})
	if r.HasLLM("primary") {
		t.Fatal("expected primary unregistered after reload")
	}
}

func TestRegistryReloadRecreatesOnChange(t *testing.T) {
	r := NewRegistry()
	cfg := RegistryConfig{
		LLMProviders: map[string]LLMProviderConfig{
			"primary": {Type: "openrouter", Model: "model-a", APIKey: "key-a", Enabled: true},
		},
	}
	r.Reload(cfg)
	before, _ := r.GetLLM("primary")

	// Unchanged config keeps the same client.
	r.Reload(cfg)
	same, _ := r.GetLLM("primary")
	if before != same {
		t.Fatal("expected client reuse for unchanged config")
	}

	// Changed model recreates it.
	cfg.LLMProviders["primary"] = LLMProviderConfig{Type: "openrouter", Model: "model-b", APIKey: "key-a", Enabled: true}
	r.Reload(cfg)
	after, _ := r.GetLLM("primary")
	if before == after {
		t.Fatal("expected client recreated for changed model")
	}
}

func TestMockClientSequentialResponses(t *testing.T) {
	mock := &MockClient{
		ResponseText: "default",
		Responses:    []string{"first", "second"},
	}

	for i, want := range []string{"first", "second", "default"} {
		result, err := mock.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "hi"}},
		})
		if err != nil {
			t.Fatalf("Chat %d: %v", i, err)
		}
		if result.Content != want {
			t.Fatalf("response %d = %q, want %q", i, result.Content, want)
		}
	}
	if mock.RequestCount() != 3 {
		t.Fatalf("request count = %d", mock.RequestCount())
	}
}
