package llm

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/apridachin/girya-storekeeper/internal/config"
	"github.com/apridachin/girya-storekeeper/internal/extraction"
	"github.com/apridachin/girya-storekeeper/internal/platform/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompleter(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.LLMConfig{
		Provider:          ProviderOpenAI,
		APIKey:            "test-key",
		Model:             "gpt-4o-mini",
		TimeoutSeconds:    10,
		MaxRetries:        1,
		RetryDelaySeconds: 1,
	}

	completer, err := NewCompleter(context.Background(), logger, cfg)
	require.NoError(t, err)
	assert.IsType(t, &openai.Completer{}, completer)

	cfg.Provider = "anthropic"
	_, err = NewCompleter(context.Background(), logger, cfg)
	assert.ErrorIs(t, err, extraction.ErrInvalidConfig)
}
