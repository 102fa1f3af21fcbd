package config

// Config holds sonomancer configuration.
type Config struct {
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	YouTube      YouTubeCfg                `mapstructure:"youtube" yaml:"youtube"`
	Agent        AgentCfg                  `mapstructure:"agent" yaml:"agent"`
	Server       ServerCfg                 `mapstructure:"server" yaml:"server"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type    string `mapstructure:"type" yaml:"type"`       // "openrouter", "openai"
	Model   string `mapstructure:"model" yaml:"model"`     // Model name
	APIKey  string `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// YouTubeCfg configures the YouTube Data API client.
type YouTubeCfg struct {
	APIKey     string `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	MaxRetries uint   `mapstructure:"max_retries" yaml:"max_retries"`
}

// AgentCfg tunes the ambience analysis agent.
type AgentCfg struct {
	ExcerptCount int `mapstructure:"excerpt_count" yaml:"excerpt_count"` // Excerpts sampled per chapter
	ExcerptChars int `mapstructure:"excerpt_chars" yaml:"excerpt_chars"` // Max characters per excerpt
	MaxResults   int `mapstructure:"max_results" yaml:"max_results"`     // Video candidates per search
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Port        int    `mapstructure:"port" yaml:"port"`
	FrontendURL string `mapstructure:"frontend_url" yaml:"frontend_url"` // Allowed CORS origin
}

// DefaultsCfg specifies default provider selections.
type DefaultsCfg struct {
	LLMProvider string `mapstructure:"llm_provider" yaml:"llm_provider"` // Default LLM provider
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openrouter": {
				Type:    "openrouter",
				Model:   "anthropic/claude-3.5-sonnet",
				APIKey:  "${OPENROUTER_API_KEY}",
				Enabled: true,
			},
			"openai": {
				Type:    "openai",
				Model:   "gpt-4o-mini",
				APIKey:  "${OPENAI_API_KEY}",
				Enabled: false,
			},
		},
		YouTube: YouTubeCfg{
			APIKey:     "${YOUTUBE_API_KEY}",
			MaxRetries: 3,
		},
		Agent: AgentCfg{
			ExcerptCount: 3,
			ExcerptChars: 200,
			MaxResults:   5,
		},
		Server: ServerCfg{
			Port:        8000,
			FrontendURL: "http://localhost:3000",
		},
		Defaults: DefaultsCfg{
			LLMProvider: "openrouter",
		},
	}
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// EnabledLLMProviders returns all enabled LLM providers.
func (c *Config) EnabledLLMProviders() map[string]LLMProviderCfg {
	result := make(map[string]LLMProviderCfg)
	for name, cfg := range c.LLMProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
