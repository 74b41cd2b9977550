package router

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darwinian-be/internal/pkg/logger"
	"darwinian-be/pkg/llm/llmtest"
)

func newTestRouter(p *llmtest.Provider) *Router {
	return NewRouter(p, "router-model", "sk-session", logger.NewNopLogger())
}

func TestDecide_UsesOracle(t *testing.T) {
	p := llmtest.New(llmtest.Rule{
		Marker: "Chief Architect",
		Reply:  `{"next_agent":"coder","reasoning":"asks for code","plan":"1. write it"}`,
	})
	r := newTestRouter(p)

	d := r.Decide(context.Background(), "write a python sort", "")

	assert.Equal(t, AgentCoder, d.NextAgent)
	assert.Equal(t, "1. write it", d.Plan)
	assert.False(t, d.Fallback)

	calls := p.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "router-model", calls[0].Options.Model)
	assert.Equal(t, "sk-session", calls[0].Options.APIKey)
	assert.True(t, calls[0].Options.Reasoning)
	assert.Contains(t, calls[0].Last(), "Current Request: write a python sort")
}

func TestDecide_MalformedOutputFallsBack(t *testing.T) {
	p := llmtest.New(llmtest.Rule{Marker: "Chief Architect", Reply: "not json at all"})
	d := newTestRouter(p).Decide(context.Background(), "hi", "")

	assert.Equal(t, AgentGeneral, d.NextAgent)
	assert.Equal(t, ReasonParseError, d.Reasoning)
	assert.True(t, d.Fallback)
}

func TestDecide_UnknownAgentFallsBack(t *testing.T) {
	p := llmtest.New(llmtest.Rule{Marker: "Chief Architect", Reply: `{"next_agent":"poet","reasoning":"x"}`})
	d := newTestRouter(p).Decide(context.Background(), "write a haiku", "")

	assert.Equal(t, AgentGeneral, d.NextAgent)
	assert.NotEmpty(t, d.Reasoning)
}

func TestDecide_APIErrorFallsBack(t *testing.T) {
	p := llmtest.New(llmtest.Rule{Marker: "Chief Architect", Err: errors.New("503")})
	d := newTestRouter(p).Decide(context.Background(), "hi", "")

	assert.Equal(t, AgentGeneral, d.NextAgent)
	assert.Equal(t, ReasonAPIError, d.Reasoning)
}

func TestDecide_EmptyInputSkipsOracle(t *testing.T) {
	p := llmtest.New()
	d := newTestRouter(p).Decide(context.Background(), "   ", "")

	assert.Equal(t, AgentGeneral, d.NextAgent)
	assert.Equal(t, 0, p.CallCount())
}

func TestDecide_DirectiveSkipsOracle(t *testing.T) {
	p := llmtest.New()
	r := newTestRouter(p)

	d := r.Decide(context.Background(), "/audit check my login form", "")
	assert.Equal(t, AgentAuditor, d.NextAgent)
	assert.True(t, d.Forced)
	assert.Equal(t, "check my login form", d.Prompt)

	d = r.Decide(context.Background(), "/code", "")
	assert.Equal(t, AgentGeneral, d.NextAgent)
	assert.Equal(t, ReasonEmptyDirective, d.Reasoning)

	assert.Equal(t, 0, p.CallCount())
}

func TestTruncateLog_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncateLog("short", 10))

	out := truncateLog("🧠🧠🧠 plan", 2)
	assert.Equal(t, "🧠🧠...", out)
	assert.True(t, utf8.ValidString(out))

	out = truncateLog("héllo wörld", 2)
	assert.Equal(t, "hé...", out)
}
