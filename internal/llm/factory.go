package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// NewProvider builds the configured backend wrapped with a per-request
// timeout and logging. Nothing retries: grading failures surface to the
// learner as they happen.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (Provider, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = newAnthropic(cfg)
	case ProviderOpenAI, ProviderOpenRouter:
		base, err = newOpenAI(cfg)
	case ProviderGemini:
		base, err = newGemini(ctx, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return WithLogging(WithTimeout(base, cfg.Timeout), cfg.Provider, logger), nil
}
