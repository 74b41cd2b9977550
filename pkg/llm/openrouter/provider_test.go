package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"darwinian-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_SendsOpenAICompatibleRequest(t *testing.T) {
	var got map[string]interface{}
	var auth, title string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		title = r.Header.Get("X-Title")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"choices":[{"message":{"content":"hello there"}}]}`))
	}))
	defer srv.Close()

	p := NewProvider("default-key", srv.URL, "xiaomi/mimo-v2-flash:free")
	out, err := p.Chat(context.Background(), []llm.Message{llm.System("sys"), llm.User("hi")}, llm.WithReasoning(true))

	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
	assert.Equal(t, "Bearer default-key", auth)
	assert.Equal(t, appTitle, title)
	assert.Equal(t, "xiaomi/mimo-v2-flash:free", got["model"])
	assert.Equal(t, 0.2, got["temperature"])
	assert.Equal(t, map[string]interface{}{"enabled": true}, got["reasoning"])
	assert.Len(t, got["messages"], 2)
}

func TestChat_OverridesCredentialAndModel(t *testing.T) {
	var auth string
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	p := NewProvider("default-key", srv.URL, "base-model")
	_, err := p.Chat(context.Background(), []llm.Message{llm.User("hi")},
		llm.WithAPIKey("session-key"), llm.WithModel("deepseek/deepseek-v3.2"))

	require.NoError(t, err)
	assert.Equal(t, "Bearer session-key", auth)
	assert.Equal(t, "deepseek/deepseek-v3.2", got["model"])
	_, hasReasoning := got["reasoning"]
	assert.False(t, hasReasoning)
}

func TestChat_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "non-2xx", status: http.StatusTooManyRequests, body: `{"error":{"message":"rate limited"}}`},
		{name: "malformed json", status: http.StatusOK, body: `not json`},
		{name: "error object", status: http.StatusOK, body: `{"error":{"message":"bad model"}}`},
		{name: "empty choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: llm.ErrNoChoices},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			out, err := NewProvider("k", srv.URL, "m").Generate(context.Background(), "hi")
			assert.Error(t, err)
			assert.Empty(t, out)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			}
		})
	}
}

func TestChat_RejectsEmptyHistory(t *testing.T) {
	_, err := NewProvider("k", "http://unused", "m").Chat(context.Background(), nil)
	assert.ErrorIs(t, err, llm.ErrEmptyMessages)
}
