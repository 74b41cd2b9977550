package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Agent is the closed set of specialists the router may pick.
type Agent string

const (
	AgentIngestion Agent = "ingestion"
	AgentCoder     Agent = "coder"
	AgentAuditor   Agent = "auditor"
	AgentGeneral   Agent = "general"
)

// Agents lists every valid routing target.
var Agents = []Agent{AgentIngestion, AgentCoder, AgentAuditor, AgentGeneral}

// ParseAgent validates s against the closed enum (case-insensitive).
func ParseAgent(s string) (Agent, bool) {
	a := Agent(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Agents {
		if a == known {
			return a, true
		}
	}
	return "", false
}

func (a Agent) String() string { return string(a) }

// Decision is what the router hands to the workflow.
type Decision struct {
	NextAgent Agent  `json:"next_agent"`
	Reasoning string `json:"reasoning"`
	Plan      string `json:"plan,omitempty"`
	Forced    bool   `json:"forced,omitempty"` // set when a /directive picked the agent
	Fallback  bool   `json:"fallback,omitempty"`
	Prompt    string `json:"-"` // request without the directive, set when Forced
}

const defaultReasoning = "No reasoning provided."

var (
	ErrMalformedDecision = errors.New("router: malformed decision")
	ErrUnknownAgent      = errors.New("router: unknown next_agent")
)

type rawDecision struct {
	NextAgent string          `json:"next_agent"`
	Reasoning string          `json:"reasoning"`
	Plan      json.RawMessage `json:"plan"`
}

// ParseDecision turns oracle output into a Decision. Markdown fences are
// stripped; if the remainder is not pure JSON the outermost {...} block is
// tried. next_agent must be one of Agents.
func ParseDecision(raw string) (Decision, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var rd rawDecision
	if err := json.Unmarshal([]byte(cleaned), &rd); err != nil {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return Decision{}, fmt.Errorf("%w: %v", ErrMalformedDecision, err)
		}
		if err2 := json.Unmarshal([]byte(cleaned[start:end+1]), &rd); err2 != nil {
			return Decision{}, fmt.Errorf("%w: %v", ErrMalformedDecision, err2)
		}
	}

	agent, ok := ParseAgent(rd.NextAgent)
	if !ok {
		return Decision{}, fmt.Errorf("%w: %w %q", ErrMalformedDecision, ErrUnknownAgent, rd.NextAgent)
	}

	reasoning := strings.TrimSpace(rd.Reasoning)
	if reasoning == "" {
		reasoning = defaultReasoning
	}

	return Decision{
		NextAgent: agent,
		Reasoning: reasoning,
		Plan:      planText(rd.Plan),
	}, nil
}

// planText accepts a string plan or any other JSON value (lists of steps are common).
func planText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var steps []string
	if err := json.Unmarshal(raw, &steps); err == nil {
		var b strings.Builder
		for i, step := range steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
		return strings.TrimSpace(b.String())
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err == nil {
		return compact.String()
	}
	return string(raw)
}

// Fallback is the decision used whenever routing cannot be trusted.
func Fallback(reason string) Decision {
	return Decision{NextAgent: AgentGeneral, Reasoning: reason, Fallback: true}
}
