package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"darwinian-be/pkg/llm"
)

const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultTemperature = 0.2

	appReferer = "http://localhost:8000"
	appTitle   = "Darwinian Dialectics Agent"
)

// Provider talks to any OpenAI-compatible chat-completions endpoint, OpenRouter by default.
type Provider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ llm.LLMProvider = (*Provider)(nil)

// Request Payload Structure (OpenAI Compatible)
type reasoningConfig struct {
	Enabled bool `json:"enabled"`
}

type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []llm.Message    `json:"messages"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Reasoning   *reasoningConfig `json:"reasoning,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewProvider(apiKey, baseURL, model string) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Provider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (p *Provider) WithHTTPClient(c *http.Client) *Provider {
	p.client = c
	return p
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) == 0 {
		return "", llm.ErrEmptyMessages
	}

	opts := llm.Apply(llm.Options{
		Model:       p.model,
		Temperature: DefaultTemperature,
		APIKey:      p.apiKey,
	}, options...)

	reqBody := chatRequest{
		Model:       opts.Model,
		Messages:    history,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if opts.Reasoning {
		reqBody.Reasoning = &reasoningConfig{Enabled: true}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", appReferer)
	req.Header.Set("X-Title", appTitle)
	if opts.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", opts.APIKey))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("openrouter api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("openrouter api returned error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", llm.ErrNoChoices
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	// Wrap single prompt into a user message
	return p.Chat(ctx, []llm.Message{llm.User(prompt)}, options...)
}
