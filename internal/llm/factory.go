package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ashrotd/singcoach/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with usage
// logging and, when more than one attempt is configured, retry.
// It returns ErrNotConfigured when the credential is absent or a placeholder.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *slog.Logger) (Provider, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → logging → base, so every attempt is recorded.
	p := WithLogging(base, cfg.Provider, events, logger)
	if cfg.Retry.MaxAttempts > 1 {
		p = WithRetry(p, cfg.Retry)
	}
	return p, nil
}
