package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Supported provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// DevPlaceholderKey is the sentinel credential shipped in development
// environments. It is never sent to a provider.
const DevPlaceholderKey = "dummy-key-for-development"

// placeholderMarker appears in copy-pasted example env files.
const placeholderMarker = "your-key-here"

// Config holds LLM provider configuration.
type Config struct {
	// Provider selects which backend to use. Values: "anthropic",
	// "openai", "gemini", "openrouter".
	Provider string `koanf:"provider"`

	// APIKey is the credential for the selected provider.
	APIKey string `koanf:"api_key"`

	// Model is a friendly name or a raw model ID.
	Model string `koanf:"model"`

	// BaseURL overrides the API endpoint (OpenAI-compatible providers and
	// Anthropic only).
	BaseURL string `koanf:"base_url"`

	// MaxTokens bounds the reply length of a coaching request.
	MaxTokens int `koanf:"max_tokens"`

	// Timeout is the maximum duration for a single coaching request,
	// retries included.
	Timeout time.Duration `koanf:"timeout"`

	Retry RetryConfig `koanf:"retry"`
}

// RetryConfig configures retry behaviour for transient failures.
// MaxAttempts of 1 means a single attempt with no retry.
type RetryConfig struct {
	MaxAttempts int           `koanf:"max_attempts"`
	InitialWait time.Duration `koanf:"initial_wait"`
	MaxWait     time.Duration `koanf:"max_wait"`
	Multiplier  float64       `koanf:"multiplier"`
}

// DefaultModels is the model used for each provider when none is set.
var DefaultModels = map[string]string{
	ProviderAnthropic:  "claude-3-5-sonnet-20241022",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGemini:     "gemini-flash",
	ProviderOpenRouter: "anthropic/claude-3.5-sonnet",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderAnthropic,
		MaxTokens: 1024,
		Timeout:   30 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ResolvedModel returns the configured model or the provider default.
func (c Config) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModels[c.Provider]
}

// Configured reports whether the credential is usable: present, not the
// development sentinel and not an example placeholder.
func (c Config) Configured() bool {
	return IsUsableKey(c.APIKey)
}

// IsUsableKey applies the credential presence and placeholder checks.
func IsUsableKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" || key == DevPlaceholderKey {
		return false
	}
	return !strings.Contains(key, placeholderMarker)
}

// discoveryOrder lists the standard env vars probed by Discover.
var discoveryOrder = []struct {
	env      string
	provider string
}{
	{"ANTHROPIC_API_KEY", ProviderAnthropic},
	{"OPENAI_API_KEY", ProviderOpenAI},
	{"GEMINI_API_KEY", ProviderGemini},
	{"OPENROUTER_API_KEY", ProviderOpenRouter},
}

// Discover fills an empty APIKey from the standard provider env vars. An
// explicitly configured provider only picks up its own variable; otherwise
// the first variable found (Anthropic → OpenAI → Gemini → OpenRouter)
// selects the provider.
func (c Config) Discover(explicitProvider bool) Config {
	if c.APIKey != "" {
		return c
	}
	for _, d := range discoveryOrder {
		if explicitProvider && d.provider != c.Provider {
			continue
		}
		if k := os.Getenv(d.env); k != "" {
			c.Provider = d.provider
			c.APIKey = k
			return c
		}
	}
	return c
}

// Validate checks the provider name and numeric bounds. A missing key is
// not an error: the service runs in mock-only mode.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("llm timeout must not be negative, got %s", c.Timeout)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("llm retry max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
