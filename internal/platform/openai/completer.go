package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/apridachin/girya-storekeeper/internal/config"
	"github.com/apridachin/girya-storekeeper/internal/extraction"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// Completer requests JSON-object chat completions.
type Completer struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

// NewCompleter creates a Completer from the LLM configuration. An empty
// BaseURL targets the public OpenAI API. Extra options are appended after
// the configured ones.
func NewCompleter(logger *slog.Logger, cfg config.LLMConfig, opts ...option.RequestOption) (*Completer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api key cannot be empty", extraction.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", extraction.ErrInvalidConfig)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	return &Completer{
		client: openai.NewClient(clientOpts...),
		model:  cfg.Model,
		logger: logger.With("component", "openai", "model", cfg.Model),
	}, nil
}

// Complete implements extraction.Completer.
func (c *Completer) Complete(ctx context.Context, messages []extraction.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
		},
	}
	for _, m := range messages {
		switch m.Role {
		case extraction.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", extraction.ErrEmptyResponse
	}

	c.logger.DebugContext(ctx, "completion created",
		"prompt_tokens", completion.Usage.PromptTokens,
		"completion_tokens", completion.Usage.CompletionTokens,
		"total_tokens", completion.Usage.TotalTokens)

	return completion.Choices[0].Message.Content, nil
}

var _ extraction.Completer = (*Completer)(nil)
