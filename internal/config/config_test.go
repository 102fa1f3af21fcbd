package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveEnvVars(t *testing.T) {
	os.Setenv("SONOMANCER_TEST_KEY", "secret-value")
	defer os.Unsetenv("SONOMANCER_TEST_KEY")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain value", "plain", "plain"},
		{"env reference", "${SONOMANCER_TEST_KEY}", "secret-value"},
		{"embedded reference", "prefix-${SONOMANCER_TEST_KEY}-suffix", "prefix-secret-value-suffix"},
		{"missing variable", "${SONOMANCER_TEST_MISSING}", ""},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveEnvVars(tt.input); got != tt.want {
				t.Fatalf("ResolveEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if _, ok := cfg.GetLLMProvider("openrouter"); !ok {
		t.Fatal("expected openrouter provider in defaults")
	}
	if cfg.Defaults.LLMProvider != "openrouter" {
		t.Fatalf("expected openrouter default, got %q", cfg.Defaults.LLMProvider)
	}
	if cfg.Agent.ExcerptCount != 3 || cfg.Agent.ExcerptChars != 200 {
		t.Fatalf("unexpected agent defaults: %+v", cfg.Agent)
	}
	if cfg.Server.Port != 8000 {
		t.Fatalf("expected port 8000, got %d", cfg.Server.Port)
	}

	enabled := cfg.EnabledLLMProviders()
	if _, ok := enabled["openrouter"]; !ok {
		t.Fatal("expected openrouter enabled")
	}
	if _, ok := enabled["openai"]; ok {
		t.Fatal("expected openai disabled by default")
	}
}

func TestToProviderRegistryConfig(t *testing.T) {
	os.Setenv("SONOMANCER_TEST_LLM_KEY", "llm-key")
	defer os.Unsetenv("SONOMANCER_TEST_LLM_KEY")

	cfg := &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openrouter": {
				Type:    "openrouter",
				Model:   "anthropic/claude-3.5-sonnet",
				APIKey:  "${SONOMANCER_TEST_LLM_KEY}",
				Enabled: true,
			},
		},
	}

	reg := cfg.ToProviderRegistryConfig()
	llm, ok := reg.LLMProviders["openrouter"]
	if !ok {
		t.Fatal("expected openrouter in registry config")
	}
	if llm.APIKey != "llm-key" {
		t.Fatalf("expected resolved API key, got %q", llm.APIKey)
	}
	if llm.Model != "anthropic/claude-3.5-sonnet" {
		t.Fatalf("unexpected model %q", llm.Model)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "llm_providers") {
		t.Fatal("expected llm_providers section")
	}
	if !strings.Contains(content, "youtube") {
		t.Fatal("expected youtube section")
	}
	if !strings.Contains(content, "${OPENROUTER_API_KEY}") {
		t.Fatal("expected env var reference in api_key")
	}
}
