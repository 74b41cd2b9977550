package llm

import (
	"context"
	"errors"
)

// Roles understood by every provider
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrEmptyMessages = errors.New("llm: message list is empty")
	ErrNoChoices     = errors.New("llm: response contained no choices")
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func System(content string) Message { return Message{Role: RoleSystem, Content: content} }
func User(content string) Message   { return Message{Role: RoleUser, Content: content} }

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	Reasoning   bool   // Ask the model to emit visible reasoning
	APIKey      string // Per-session credential, falls back to the provider default
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithReasoning(enabled bool) Option {
	return func(o *Options) {
		o.Reasoning = enabled
	}
}

// WithAPIKey overrides the process-wide credential. Empty keys are ignored.
func WithAPIKey(key string) Option {
	return func(o *Options) {
		if key != "" {
			o.APIKey = key
		}
	}
}

// Apply folds opts over base and returns the result.
func Apply(base Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
