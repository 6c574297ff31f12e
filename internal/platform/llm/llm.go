// Package llm selects the extraction completer configured for the process.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apridachin/girya-storekeeper/internal/config"
	"github.com/apridachin/girya-storekeeper/internal/extraction"
	"github.com/apridachin/girya-storekeeper/internal/platform/gemini"
	"github.com/apridachin/girya-storekeeper/internal/platform/openai"
)

// Provider names accepted in llm.provider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// NewCompleter returns the completer for cfg.Provider.
func NewCompleter(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (extraction.Completer, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		completer, err := openai.NewCompleter(logger, cfg)
		if err != nil {
			return nil, err
		}
		return completer, nil
	case ProviderGemini:
		completer, err := gemini.NewCompleter(ctx, logger, cfg)
		if err != nil {
			return nil, err
		}
		return completer, nil
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", extraction.ErrInvalidConfig, cfg.Provider)
	}
}
