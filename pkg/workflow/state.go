package workflow

import "darwinian-be/pkg/ai/router"

// TurnState is the record carried through one user turn.
type TurnState struct {
	Input        string       `json:"input"`
	History      string       `json:"history"`
	CurrentAgent router.Agent `json:"current_agent"`
	Reasoning    string       `json:"reasoning"`
	Plan         string       `json:"plan,omitempty"`
	Draft        string       `json:"draft,omitempty"`
	Audit        string       `json:"audit,omitempty"`
	FinalOutput  string       `json:"final_output"`
}

// CodeGenerated reports whether the coder produced a draft this turn.
func (s TurnState) CodeGenerated() bool {
	return s.Draft != ""
}

// Node names a vertex of the turn graph.
type Node string

const (
	NodeRouter    Node = "router"
	NodeIngestion Node = "ingestion"
	NodeCoder     Node = "coder"
	NodeAuditor   Node = "auditor"
	NodeGeneral   Node = "general"
	NodeEnd       Node = "end"
)

// Transition is the router's conditional edge: a pure lookup from the
// decided agent to the next node. Anything unrecognized goes to general.
func Transition(agent router.Agent) Node {
	switch agent {
	case router.AgentIngestion:
		return NodeIngestion
	case router.AgentCoder:
		return NodeCoder
	case router.AgentAuditor:
		return NodeAuditor
	default:
		return NodeGeneral
	}
}

// Step is emitted after each node runs.
type Step struct {
	Node      Node         `json:"node"`
	Agent     router.Agent `json:"agent,omitempty"`
	Reasoning string       `json:"reasoning,omitempty"`
	Plan      string       `json:"plan,omitempty"`
	Output    string       `json:"output,omitempty"`
}

// Observer receives steps as they happen. It must not block for long.
type Observer func(Step)
