package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/apridachin/girya-storekeeper/internal/config"
	"github.com/apridachin/girya-storekeeper/internal/extraction"
	"google.golang.org/genai"
)

// contentGenerator is the subset of the genai client the completer uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		cfg *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Completer sends extraction prompts to Gemini and retries transient
// failures with exponential backoff.
type Completer struct {
	logger     *slog.Logger
	models     contentGenerator
	model      string
	maxRetries int
	baseDelay  time.Duration
	sleep      func(context.Context, time.Duration) error
}

// NewCompleter creates a Completer backed by the Gemini API.
//
// Parameters:
//   - ctx: Context for client initialization
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model name and retry settings
//
// Returns:
//   - A properly initialized Completer or an error if initialization fails
func NewCompleter(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Completer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", extraction.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", extraction.ErrInvalidConfig)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", extraction.ErrInvalidConfig, err)
	}

	return newCompleter(logger, client.Models, cfg), nil
}

func newCompleter(logger *slog.Logger, models contentGenerator, cfg config.LLMConfig) *Completer {
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelay := time.Duration(cfg.RetryDelaySeconds) * time.Second
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	return &Completer{
		logger:     logger.With("component", "gemini", "model", cfg.Model),
		models:     models,
		model:      cfg.Model,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		sleep:      sleepContext,
	}
}

// Complete implements extraction.Completer. System messages become the
// system instruction; the rest are sent as user content.
func (c *Completer) Complete(ctx context.Context, messages []extraction.Message) (string, error) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		if m.Role == extraction.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  "user",
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	if len(contents) == 0 {
		return "", errors.New("at least one user message is required")
	}

	genConfig := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if len(system) > 0 {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n")}},
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for attempt := 0; ; attempt++ {
		text, err := c.generate(ctx, contents, genConfig)
		if err == nil {
			return text, nil
		}

		// Refusals and empty answers will not change on retry.
		if errors.Is(err, extraction.ErrContentBlocked) || errors.Is(err, extraction.ErrEmptyResponse) {
			return "", err
		}
		if attempt >= c.maxRetries {
			return "", fmt.Errorf("gemini call failed after %d attempts: %w", attempt+1, err)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoff := float64(c.baseDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5))

		c.logger.WarnContext(ctx, "gemini call failed, retrying after delay",
			"attempt", attempt+1,
			"delay", delay,
			"error", err)

		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
}

func (c *Completer) generate(
	ctx context.Context,
	contents []*genai.Content,
	genConfig *genai.GenerateContentConfig,
) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, contents, genConfig)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", extraction.ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", extraction.ErrContentBlocked
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return "", extraction.ErrEmptyResponse
	}

	c.logger.DebugContext(ctx, "gemini completion created", "response_length", text.Len())
	return text.String(), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

var _ extraction.Completer = (*Completer)(nil)
