package router

import (
	"strings"
)

// Directive prefixes let a user skip the oracle and pick a specialist directly.
// ORDER MATTERS for parsing (check longer prefix first)
var directivePrefixes = []struct {
	prefix string
	agent  Agent
}{
	{"/ingest", AgentIngestion},
	{"/coder", AgentCoder},
	{"/code", AgentCoder},
	{"/audit", AgentAuditor},
	{"/general", AgentGeneral},
	{"/chat", AgentGeneral},
}

// ParsedInput contains routing information extracted from the user message
type ParsedInput struct {
	OriginalPrompt string // Full original prompt
	CleanPrompt    string // Prompt without prefix
	Agent          Agent  // Forced agent, empty when no directive
	HasDirective   bool
}

// ParseDirective extracts a routing directive from the prompt
// Supports:
//   - /code <prompt>, /coder <prompt> → coder
//   - /audit <prompt> → auditor
//   - /ingest <prompt> → ingestion
//   - /chat <prompt>, /general <prompt> → general
//   - <prompt> → no directive, the oracle decides
func ParseDirective(prompt string) *ParsedInput {
	trimmed := strings.TrimSpace(prompt)
	lower := strings.ToLower(trimmed)

	for _, d := range directivePrefixes {
		if !strings.HasPrefix(lower, d.prefix) {
			continue
		}
		rest := trimmed[len(d.prefix):]
		// "/codex" is not "/code"
		if rest != "" && rest[0] != ' ' && rest[0] != '\n' && rest[0] != '\t' {
			continue
		}
		return &ParsedInput{
			OriginalPrompt: prompt,
			CleanPrompt:    strings.TrimSpace(rest),
			Agent:          d.agent,
			HasDirective:   true,
		}
	}

	return &ParsedInput{
		OriginalPrompt: prompt,
		CleanPrompt:    prompt,
	}
}

// IsEmpty returns true if the clean prompt is empty
func (p *ParsedInput) IsEmpty() bool {
	return strings.TrimSpace(p.CleanPrompt) == ""
}
