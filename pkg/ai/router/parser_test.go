package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantAgent    Agent
		wantClean    string
		hasDirective bool
	}{
		{"no directive", "hello there", "", "hello there", false},
		{"code", "/code write a sort", AgentCoder, "write a sort", true},
		{"coder", "/coder write a sort", AgentCoder, "write a sort", true},
		{"audit uppercase", "/AUDIT check this", AgentAuditor, "check this", true},
		{"ingest", "/ingest  big log dump", AgentIngestion, "big log dump", true},
		{"chat", "/chat hi", AgentGeneral, "hi", true},
		{"general", "/general hi", AgentGeneral, "hi", true},
		{"unknown prefix stays", "/codex write", "", "/codex write", false},
		{"empty directive", "/code", AgentCoder, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDirective(tt.input)
			assert.Equal(t, tt.hasDirective, got.HasDirective)
			assert.Equal(t, tt.wantAgent, got.Agent)
			assert.Equal(t, tt.wantClean, got.CleanPrompt)
			assert.Equal(t, tt.input, got.OriginalPrompt)
		})
	}
}

func TestParseDecision(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		d, err := ParseDecision(`{"next_agent":"coder","reasoning":"wants code"}`)
		require.NoError(t, err)
		assert.Equal(t, AgentCoder, d.NextAgent)
		assert.Equal(t, "wants code", d.Reasoning)
	})

	t.Run("fenced json", func(t *testing.T) {
		d, err := ParseDecision("```json\n{\"next_agent\": \"auditor\", \"reasoning\": \"review\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, AgentAuditor, d.NextAgent)
	})

	t.Run("prose around object", func(t *testing.T) {
		d, err := ParseDecision("Sure! {\"next_agent\":\"ingestion\",\"reasoning\":\"logs\"} hope this helps")
		require.NoError(t, err)
		assert.Equal(t, AgentIngestion, d.NextAgent)
	})

	t.Run("missing reasoning gets default", func(t *testing.T) {
		d, err := ParseDecision(`{"next_agent":"general"}`)
		require.NoError(t, err)
		assert.Equal(t, defaultReasoning, d.Reasoning)
	})

	t.Run("plan as list", func(t *testing.T) {
		d, err := ParseDecision(`{"next_agent":"coder","reasoning":"x","plan":["parse input","write func"]}`)
		require.NoError(t, err)
		assert.Equal(t, "1. parse input\n2. write func", d.Plan)
	})

	t.Run("plan as string", func(t *testing.T) {
		d, err := ParseDecision(`{"next_agent":"coder","reasoning":"x","plan":"  do it  "}`)
		require.NoError(t, err)
		assert.Equal(t, "do it", d.Plan)
	})

	t.Run("unknown agent", func(t *testing.T) {
		_, err := ParseDecision(`{"next_agent":"wizard","reasoning":"magic"}`)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedDecision))
		assert.True(t, errors.Is(err, ErrUnknownAgent))
	})

	t.Run("not json", func(t *testing.T) {
		_, err := ParseDecision("I think the coder should do it")
		assert.ErrorIs(t, err, ErrMalformedDecision)
	})
}

func TestParseAgent(t *testing.T) {
	a, ok := ParseAgent(" Coder ")
	assert.True(t, ok)
	assert.Equal(t, AgentCoder, a)

	_, ok = ParseAgent("")
	assert.False(t, ok)
}
