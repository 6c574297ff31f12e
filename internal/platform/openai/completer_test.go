package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apridachin/girya-storekeeper/internal/config"
	"github.com/apridachin/girya-storekeeper/internal/extraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completionServer(t *testing.T, content string, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
}

func testConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		Provider: "openai",
		APIKey:   "test-key",
		BaseURL:  baseURL,
		Model:    "test-model",
	}
}

func TestNewCompleter_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewCompleter(nil, testConfig(""))
	assert.Error(t, err)

	cfg := testConfig("")
	cfg.APIKey = ""
	_, err = NewCompleter(discardLogger(), cfg)
	assert.ErrorIs(t, err, extraction.ErrInvalidConfig)

	cfg = testConfig("")
	cfg.Model = ""
	_, err = NewCompleter(discardLogger(), cfg)
	assert.ErrorIs(t, err, extraction.ErrInvalidConfig)
}

func TestComplete_RequestsJSONObject(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	server := completionServer(t, `{"products":[]}`, &captured)
	defer server.Close()

	completer, err := NewCompleter(discardLogger(), testConfig(server.URL+"/"))
	require.NoError(t, err)

	reply, err := completer.Complete(context.Background(), []extraction.Message{
		{Role: extraction.RoleSystem, Content: "system prompt"},
		{Role: extraction.RoleUser, Content: "user prompt"},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"products":[]}`, reply)
	assert.Equal(t, "test-model", captured["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, captured["response_format"])

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestComplete_EmptyContent(t *testing.T) {
	t.Parallel()

	server := completionServer(t, "", nil)
	defer server.Close()

	completer, err := NewCompleter(discardLogger(), testConfig(server.URL+"/"))
	require.NoError(t, err)

	_, err = completer.Complete(context.Background(), []extraction.Message{{Role: extraction.RoleUser, Content: "x"}})
	assert.ErrorIs(t, err, extraction.ErrEmptyResponse)
}

func TestComplete_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad request","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	completer, err := NewCompleter(discardLogger(), testConfig(server.URL+"/"))
	require.NoError(t, err)

	_, err = completer.Complete(context.Background(), []extraction.Message{{Role: extraction.RoleUser, Content: "x"}})
	assert.Error(t, err)
}
