package router

import (
	"context"
	"fmt"
	"strings"

	"darwinian-be/internal/pkg/logger"
	"darwinian-be/pkg/llm"
)

const logModule = "Router"

const systemPrompt = `You are the Chief Architect (Router) of a software development system.

Your Goal: Analyze the user's request and route it to the correct specialized agent.

AVAILABLE AGENTS:
1. 'ingestion': Use ONLY if the user provides a large block of text, documentation, logs, or context history to remember.
2. 'coder': Use if the user wants to write code, refactor, fix bugs, or design software architecture.
3. 'auditor': Use if the user specifically asks to review, critique, or verify existing logic/code.
4. 'general': For greetings, simple questions, or small talk.

If you pick 'coder', add a short numbered implementation plan.

OUTPUT FORMAT:
You must return valid JSON only. No markdown.
{
    "next_agent": "ingestion" | "coder" | "auditor" | "general",
    "reasoning": "Brief explanation of why you chose this agent.",
    "plan": "Optional step-by-step plan for the coder."
}`

const (
	ReasonEmptyInput     = "Empty input, nothing to route."
	ReasonEmptyDirective = "Directive given without a request."
	ReasonAPIError       = "API Error, defaulting to general."
	ReasonParseError     = "Failed to parse router decision."
)

// Router asks the oracle which specialist should handle a message
type Router struct {
	provider llm.LLMProvider
	model    string
	apiKey   string
	logger   logger.ILogger
}

// NewRouter creates a new router bound to one model and credential
func NewRouter(provider llm.LLMProvider, model, apiKey string, log logger.ILogger) *Router {
	return &Router{
		provider: provider,
		model:    model,
		apiKey:   apiKey,
		logger:   log,
	}
}

// Model returns the model id used for routing.
func (r *Router) Model() string { return r.model }

// Decide picks the next agent. It never fails: every problem degrades to
// the general fallback with a reason explaining why.
func (r *Router) Decide(ctx context.Context, input, history string) Decision {
	if strings.TrimSpace(input) == "" {
		r.logger.Info(logModule, "Empty input, short-circuit to general", nil)
		return Fallback(ReasonEmptyInput)
	}

	if parsed := ParseDirective(input); parsed.HasDirective {
		if parsed.IsEmpty() {
			return Fallback(ReasonEmptyDirective)
		}
		r.logger.Info(logModule, "Routing forced by directive", map[string]interface{}{"next_agent": parsed.Agent})
		return Decision{
			NextAgent: parsed.Agent,
			Reasoning: fmt.Sprintf("Routing forced by /%s directive.", parsed.Agent),
			Forced:    true,
			Prompt:    parsed.CleanPrompt,
		}
	}

	r.logger.Debug(logModule, "Thinking about request", map[string]interface{}{
		"model": r.model,
		"input": truncateLog(input, 50),
	})

	messages := []llm.Message{
		llm.System(systemPrompt),
		llm.User(fmt.Sprintf("History: %s\n\nCurrent Request: %s", history, input)),
	}

	content, err := r.provider.Chat(ctx, messages,
		llm.WithModel(r.model),
		llm.WithAPIKey(r.apiKey),
		llm.WithReasoning(true),
	)
	if err != nil {
		r.logger.Error(logModule, "Oracle call failed", map[string]interface{}{"error": err.Error()})
		return Fallback(ReasonAPIError)
	}

	decision, err := ParseDecision(content)
	if err != nil {
		r.logger.Warn(logModule, "Decision parse error", map[string]interface{}{
			"error": err.Error(),
			"raw":   truncateLog(content, 200),
		})
		return Fallback(ReasonParseError)
	}

	r.logger.Info(logModule, "Decision made", map[string]interface{}{
		"next_agent": decision.NextAgent,
		"reasoning":  decision.Reasoning,
		"has_plan":   decision.Plan != "",
	})
	return decision
}

// truncateLog keeps at most maxLen runes for logging
func truncateLog(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
