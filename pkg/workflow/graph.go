package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"darwinian-be/internal/pkg/logger"
	"darwinian-be/pkg/agent"
)

const (
	logModule = "Workflow"

	// MaxSteps bounds a single turn. router plus one specialist is two.
	MaxSteps = 15
)

var ErrStepLimit = errors.New("workflow: step limit exceeded")

// Handler runs one node and returns the updated state and the next node.
type Handler func(ctx context.Context, s TurnState) (TurnState, Node)

// Graph is the explicit dispatch table for a turn: router first, then
// exactly one specialist, then end.
type Graph struct {
	agents    *agent.Registry
	autoAudit bool
	handlers  map[Node]Handler
	tracer    trace.Tracer
	logger    logger.ILogger
}

// NewGraph wires the handlers for a session's registry. With autoAudit the
// coder's draft is reviewed before the turn ends.
func NewGraph(agents *agent.Registry, autoAudit bool, log logger.ILogger) *Graph {
	g := &Graph{
		agents:    agents,
		autoAudit: autoAudit,
		tracer:    otel.Tracer("darwinian-be/workflow"),
		logger:    log,
	}
	g.handlers = map[Node]Handler{
		NodeRouter:    g.route,
		NodeIngestion: g.ingest,
		NodeCoder:     g.code,
		NodeAuditor:   g.audit,
		NodeGeneral:   g.general,
	}
	return g
}

// Run executes the turn from the router node. observe may be nil.
func (g *Graph) Run(ctx context.Context, state TurnState, observe Observer) (TurnState, error) {
	ctx, span := g.tracer.Start(ctx, "workflow.turn")
	defer span.End()

	if observe == nil {
		observe = func(Step) {}
	}

	node := NodeRouter
	for steps := 0; node != NodeEnd; steps++ {
		if steps >= MaxSteps {
			return state, fmt.Errorf("%w after %d steps", ErrStepLimit, steps)
		}
		if err := ctx.Err(); err != nil {
			return state, err
		}

		handler, ok := g.handlers[node]
		if !ok {
			return state, fmt.Errorf("workflow: no handler for node %q", node)
		}

		nodeCtx, nodeSpan := g.tracer.Start(ctx, "workflow."+string(node))
		var next Node
		state, next = handler(nodeCtx, state)
		nodeSpan.SetAttributes(attribute.String("next", string(next)))
		nodeSpan.End()

		observe(stepFor(node, state))
		node = next
	}

	span.SetAttributes(
		attribute.String("agent", string(state.CurrentAgent)),
		attribute.Bool("code_generated", state.CodeGenerated()),
	)
	return state, nil
}

func stepFor(node Node, s TurnState) Step {
	if node == NodeRouter {
		return Step{Node: node, Agent: s.CurrentAgent, Reasoning: s.Reasoning, Plan: s.Plan}
	}
	return Step{Node: node, Agent: s.CurrentAgent, Output: s.FinalOutput}
}

func (g *Graph) route(ctx context.Context, s TurnState) (TurnState, Node) {
	decision := g.agents.Router.Decide(ctx, s.Input, s.History)

	s.CurrentAgent = decision.NextAgent
	s.Reasoning = decision.Reasoning
	s.Plan = decision.Plan
	if decision.Forced {
		s.Input = decision.Prompt
	}

	next := Transition(decision.NextAgent)
	g.logger.Info(logModule, "Routed", map[string]interface{}{
		"next":     next,
		"forced":   decision.Forced,
		"fallback": decision.Fallback,
	})
	return s, next
}

func (g *Graph) ingest(ctx context.Context, s TurnState) (TurnState, Node) {
	s.FinalOutput = g.agents.Ingestion.Process(ctx, s.Input)
	return s, NodeEnd
}

func (g *Graph) code(ctx context.Context, s TurnState) (TurnState, Node) {
	draft := g.agents.Coder.WriteCode(ctx, s.Input, s.Plan)
	if draft == agent.CoderFailure {
		s.FinalOutput = draft
		return s, NodeEnd
	}
	s.Draft = draft

	if !g.autoAudit {
		s.FinalOutput = FormatDraft(draft)
		return s, NodeEnd
	}

	s.Audit = g.agents.Auditor.Audit(ctx, agent.CodeReview{Draft: draft})
	s.FinalOutput = FormatPipelineOutput(draft, s.Audit)
	return s, NodeEnd
}

func (g *Graph) audit(ctx context.Context, s TurnState) (TurnState, Node) {
	s.FinalOutput = g.agents.Auditor.Audit(ctx, agent.InputReview{Content: s.Input})
	return s, NodeEnd
}

func (g *Graph) general(_ context.Context, s TurnState) (TurnState, Node) {
	s.FinalOutput = g.agents.General.Reply()
	return s, NodeEnd
}
