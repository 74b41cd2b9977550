// Package llmtest provides a scripted LLMProvider for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"darwinian-be/pkg/llm"
)

// Rule answers any call whose system prompt contains Marker.
type Rule struct {
	Marker string
	Reply  string
	Err    error
}

// Call is one recorded invocation.
type Call struct {
	Messages []llm.Message
	Options  llm.Options
}

// System returns the first system message content, if any.
func (c Call) System() string {
	for _, m := range c.Messages {
		if m.Role == llm.RoleSystem {
			return m.Content
		}
	}
	return ""
}

// Last returns the content of the final message.
func (c Call) Last() string {
	if len(c.Messages) == 0 {
		return ""
	}
	return c.Messages[len(c.Messages)-1].Content
}

type Provider struct {
	mu      sync.Mutex
	rules   []Rule
	queue   map[string][]string
	Default string
	calls   []Call
}

var _ llm.LLMProvider = (*Provider)(nil)

func New(rules ...Rule) *Provider {
	return &Provider{rules: rules, queue: make(map[string][]string)}
}

// Enqueue makes successive calls matching marker return replies in order.
// Once drained the static rules apply again.
func (p *Provider) Enqueue(marker string, replies ...string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue[marker] = append(p.queue[marker], replies...)
	return p
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(history) == 0 {
		return "", llm.ErrEmptyMessages
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	call := Call{Messages: append([]llm.Message(nil), history...), Options: llm.Apply(llm.Options{}, options...)}
	p.calls = append(p.calls, call)

	system := call.System()
	for marker, replies := range p.queue {
		if len(replies) > 0 && strings.Contains(system, marker) {
			p.queue[marker] = replies[1:]
			return replies[0], nil
		}
	}
	for _, r := range p.rules {
		if strings.Contains(system, r.Marker) {
			return r.Reply, r.Err
		}
	}
	return p.Default, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{llm.User(prompt)}, options...)
}

// Calls returns a copy of every recorded call.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// CallCount reports how many calls were made.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}
