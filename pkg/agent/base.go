package agent

import (
	"context"

	"darwinian-be/internal/pkg/logger"
	"darwinian-be/pkg/llm"
)

// caller is the single-shot oracle call every specialist is built on.
type caller struct {
	name     string
	provider llm.LLMProvider
	model    string
	apiKey   string
	logger   logger.ILogger
}

// ask sends system+user to the bound model. ok is false when the call
// failed; the error is logged here and never propagated.
func (c caller) ask(ctx context.Context, system, user string, opts ...llm.Option) (string, bool) {
	messages := []llm.Message{llm.System(system), llm.User(user)}

	opts = append([]llm.Option{llm.WithModel(c.model), llm.WithAPIKey(c.apiKey)}, opts...)

	c.logger.Debug(c.name, "Calling oracle", map[string]interface{}{
		"model":      c.model,
		"input_size": len(user),
	})

	out, err := c.provider.Chat(ctx, messages, opts...)
	if err != nil {
		c.logger.Error(c.name, "Oracle call failed", map[string]interface{}{
			"model": c.model,
			"error": err.Error(),
		})
		return "", false
	}
	return out, true
}

// Model returns the model the agent is bound to.
func (c caller) Model() string { return c.model }
