package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/apridachin/girya-storekeeper/internal/config"
	"github.com/apridachin/girya-storekeeper/internal/extraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// mockModels scripts a sequence of GenerateContent outcomes.
type mockModels struct {
	GenerateContentFn func(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		cfg *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
	calls int
}

func (m *mockModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	m.calls++
	return m.GenerateContentFn(ctx, model, contents, cfg)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func newTestCompleter(models contentGenerator, maxRetries int) (*Completer, *[]time.Duration) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := newCompleter(logger, models, config.LLMConfig{
		Model:             "gemini-test",
		MaxRetries:        maxRetries,
		RetryDelaySeconds: 1,
	})
	var delays []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	return c, &delays
}

var prompt = []extraction.Message{
	{Role: extraction.RoleSystem, Content: "be precise"},
	{Role: extraction.RoleUser, Content: "extract"},
}

func TestNewCompleter_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewCompleter(context.Background(), nil, config.LLMConfig{APIKey: "k", Model: "m"})
	assert.Error(t, err)

	_, err = NewCompleter(context.Background(), slog.Default(), config.LLMConfig{Model: "m"})
	assert.ErrorIs(t, err, extraction.ErrInvalidConfig)

	_, err = NewCompleter(context.Background(), slog.Default(), config.LLMConfig{APIKey: "k"})
	assert.ErrorIs(t, err, extraction.ErrInvalidConfig)
}

func TestComplete_SendsSystemInstructionAndJSONMime(t *testing.T) {
	t.Parallel()

	models := &mockModels{GenerateContentFn: func(
		ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error) {
		assert.Equal(t, "gemini-test", model)
		assert.Equal(t, "application/json", cfg.ResponseMIMEType)
		require.NotNil(t, cfg.SystemInstruction)
		assert.Equal(t, "be precise", cfg.SystemInstruction.Parts[0].Text)
		require.Len(t, contents, 1)
		assert.Equal(t, "user", contents[0].Role)
		assert.Equal(t, "extract", contents[0].Parts[0].Text)
		return textResponse(`{"ok":true}`), nil
	}}
	completer, _ := newTestCompleter(models, 0)

	reply, err := completer.Complete(context.Background(), prompt)

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, reply)
}

func TestComplete_RetriesTransientErrors(t *testing.T) {
	t.Parallel()

	models := &mockModels{}
	models.GenerateContentFn = func(
		ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error) {
		if models.calls < 3 {
			return nil, errors.New("503 unavailable")
		}
		return textResponse(`{}`), nil
	}
	completer, delays := newTestCompleter(models, 2)

	reply, err := completer.Complete(context.Background(), prompt)

	require.NoError(t, err)
	assert.Equal(t, `{}`, reply)
	assert.Equal(t, 3, models.calls)
	require.Len(t, *delays, 2)
	assert.GreaterOrEqual(t, (*delays)[0], 500*time.Millisecond)
	assert.GreaterOrEqual(t, (*delays)[1], time.Second)
}

func TestComplete_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	cause := errors.New("503 unavailable")
	models := &mockModels{GenerateContentFn: func(
		ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error) {
		return nil, cause
	}}
	completer, _ := newTestCompleter(models, 1)

	_, err := completer.Complete(context.Background(), prompt)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 2, models.calls)
}

func TestComplete_PermanentFailuresAreNotRetried(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		response *genai.GenerateContentResponse
		want     error
	}{
		{
			name:     "no candidates",
			response: &genai.GenerateContentResponse{},
			want:     extraction.ErrEmptyResponse,
		},
		{
			name: "safety block",
			response: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content:      &genai.Content{Parts: []*genai.Part{{Text: "{}"}}},
				FinishReason: genai.FinishReasonSafety,
			}}},
			want: extraction.ErrContentBlocked,
		},
		{
			name:     "empty text",
			response: textResponse(""),
			want:     extraction.ErrEmptyResponse,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			models := &mockModels{GenerateContentFn: func(
				ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig,
			) (*genai.GenerateContentResponse, error) {
				return tc.response, nil
			}}
			completer, _ := newTestCompleter(models, 3)

			_, err := completer.Complete(context.Background(), prompt)

			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 1, models.calls)
		})
	}
}

func TestComplete_RequiresUserMessage(t *testing.T) {
	t.Parallel()

	completer, _ := newTestCompleter(&mockModels{}, 0)

	_, err := completer.Complete(context.Background(), prompt[:1])
	assert.Error(t, err)
}
