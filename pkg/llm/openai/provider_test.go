package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"darwinian-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_UsesConfiguredBaseURL(t *testing.T) {
	var auth string
	var got map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"pong"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p := NewProvider("default-key", srv.URL, "gpt-4o-mini")
	out, err := p.Chat(context.Background(), []llm.Message{llm.User("ping")}, llm.WithAPIKey("override"))

	require.NoError(t, err)
	assert.Equal(t, "pong", out)
	assert.Equal(t, "Bearer override", auth)
	assert.Equal(t, "gpt-4o-mini", got["model"])
}

func TestChat_ServerErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	defer srv.Close()

	_, err := NewProvider("k", srv.URL, "m").Generate(context.Background(), "ping")
	assert.Error(t, err)
}
