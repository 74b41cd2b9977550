package openai

import (
	"context"
	"fmt"

	"darwinian-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

// Provider wraps the go-openai client. Any OpenAI-compatible base URL works.
type Provider struct {
	apiKey  string
	baseURL string
	model   string
	client  *goopenai.Client
}

var _ llm.LLMProvider = (*Provider)(nil)

func NewProvider(apiKey, baseURL, model string) *Provider {
	return &Provider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  newClient(apiKey, baseURL),
	}
}

func newClient(apiKey, baseURL string) *goopenai.Client {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return goopenai.NewClientWithConfig(cfg)
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) == 0 {
		return "", llm.ErrEmptyMessages
	}

	opts := llm.Apply(llm.Options{Model: p.model, Temperature: 0.2, APIKey: p.apiKey}, options...)

	client := p.client
	if opts.APIKey != p.apiKey {
		client = newClient(opts.APIKey, p.baseURL)
	}

	messages := make([]goopenai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		messages[i] = goopenai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content}
	}

	req := goopenai.ChatCompletionRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: float32(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		req.MaxCompletionTokens = opts.MaxTokens
	}
	if opts.Reasoning {
		req.ReasoningEffort = "medium"
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai api call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", llm.ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{llm.User(prompt)}, options...)
}
