package ollama

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

func TestOllamaChat(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"3 apples"},"done":true}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	out, err := p.Chat(context.Background(), []llm.Message{llm.User("how many?")}, llm.WithTemperature(0.1))

	require.NoError(t, err)
	assert.Equal(t, "3 apples", out)
	assert.Equal(t, "llama3", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, 0.1, got.Options.Temperature)
}

func TestOllamaChat_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "missing").Generate(context.Background(), "hi")
	assert.Error(t, err)
}

func TestOllamaChat_StripsThinking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"role":"assistant","content":"<think>maybe SCORE: 2</think>\nSCORE: 9"},"done":true}`))
	}))
	defer srv.Close()

	out, err := NewOllamaProvider(srv.URL, "deepseek-r1").Generate(context.Background(), "rate it")
	require.NoError(t, err)
	assert.Equal(t, "SCORE: 9", out)
}

func TestOllamaChat_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"role":"assistant","content":"  "},"done":true}`))
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "llama3").Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, llm.ErrNoChoices)
}
