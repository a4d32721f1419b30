package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted by NewProvider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Config selects and configures one model provider.
type Config struct {
	Provider string        `koanf:"provider"`
	Model    string        `koanf:"model"`
	APIKey   string        `koanf:"key"`
	BaseURL  string        `koanf:"baseurl"`
	Timeout  time.Duration `koanf:"timeout"`
}

// defaultModels is the friendly model name used when Model is empty.
var defaultModels = map[string]string{
	ProviderGemini:     "gemini-flash",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenRouter: "google/gemini-2.0-flash-001",
}

// keyEnvVars lists, in discovery priority, the standard API key variables.
var keyEnvVars = []struct {
	provider string
	env      string
}{
	{ProviderGemini, "GEMINI_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY"},
}

// WithDefaults fills the model, base URL and timeout for the provider.
func (c Config) WithDefaults() Config {
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	if c.Provider == ProviderOpenRouter && c.BaseURL == "" {
		c.BaseURL = defaultOpenRouterBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}

// Discover completes c from the environment. With no provider set it
// probes the standard key variables (Gemini, OpenAI, Anthropic,
// OpenRouter) and picks the first one found. With a provider but no key
// it reads that provider's variable. It reports whether a usable
// configuration was found.
func (c Config) Discover() (Config, bool) {
	for _, kv := range keyEnvVars {
		if c.Provider != "" && c.Provider != kv.provider {
			continue
		}
		if c.APIKey == "" {
			c.APIKey = os.Getenv(kv.env)
		}
		if c.APIKey != "" {
			c.Provider = kv.provider
			return c.WithDefaults(), true
		}
	}
	return c, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter:
		if c.APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider", c.Provider)
		}
		return nil
	case "":
		return fmt.Errorf("no LLM provider configured")
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}
