package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darwinian-be/internal/pkg/logger"
	"darwinian-be/pkg/llm/llmtest"
)

var testSettings = Settings{
	APIKey:            "sk-user",
	OrchestratorModel: "router-m",
	IngestionModel:    "ingest-m",
	CoderModel:        "coder-m",
	AuditorModel:      "audit-m",
	RepairModel:       "repair-m",
}

func newTestRegistry(p *llmtest.Provider) *Registry {
	return NewRegistry(p, testSettings, logger.NewNopLogger())
}

func TestIngestion_PrefixesLabel(t *testing.T) {
	p := llmtest.New(llmtest.Rule{Marker: "Deep Context", Reply: "user wants X under constraint Y"})
	out := newTestRegistry(p).Ingestion.Process(context.Background(), "huge log")

	assert.Equal(t, IngestionLabel+"user wants X under constraint Y", out)
	require.Equal(t, 1, p.CallCount())
	assert.Equal(t, "ingest-m", p.Calls()[0].Options.Model)
	assert.Equal(t, "huge log", p.Calls()[0].Last())
}

func TestIngestion_FailureString(t *testing.T) {
	p := llmtest.New(llmtest.Rule{Marker: "Deep Context", Err: errors.New("boom")})
	assert.Equal(t, IngestionFailure, newTestRegistry(p).Ingestion.Process(context.Background(), "x"))
	assert.True(t, IsFailure(IngestionFailure))
	assert.False(t, IsFailure(IngestionLabel+"summary"))
}

func TestCoder_PlanGoesIntoSystemPrompt(t *testing.T) {
	p := llmtest.New(llmtest.Rule{Marker: "Elite Software Engineer", Reply: "```python\nprint(1)\n```"})
	reg := newTestRegistry(p)

	out := reg.Coder.WriteCode(context.Background(), "print one", "1. call print")
	assert.Contains(t, out, "print(1)")

	call := p.Calls()[0]
	assert.True(t, strings.Contains(call.System(), "1. call print"))
	assert.Equal(t, "coder-m", call.Options.Model)
	assert.Equal(t, "sk-user", call.Options.APIKey)
}

func TestCoder_NoPlan(t *testing.T) {
	p := llmtest.New(llmtest.Rule{Marker: "Elite Software Engineer", Reply: "code"})
	newTestRegistry(p).Coder.WriteCode(context.Background(), "x", "  ")
	assert.Equal(t, CoderPrompt, p.Calls()[0].System())
}

func TestCoder_FailureString(t *testing.T) {
	p := llmtest.New(llmtest.Rule{Marker: "Elite Software Engineer", Err: errors.New("timeout")})
	assert.Equal(t, CoderFailure, newTestRegistry(p).Coder.WriteCode(context.Background(), "x", ""))
}

func TestAuditor_ModeSelectsPrompt(t *testing.T) {
	p := llmtest.New(
		llmtest.Rule{Marker: "Senior QA Engineer", Reply: "✅ Verified"},
		llmtest.Rule{Marker: "Lead Security Researcher", Reply: "❌ FAIL: SQL injection"},
	)
	reg := newTestRegistry(p)

	assert.Equal(t, "✅ Verified", reg.Auditor.Audit(context.Background(), CodeReview{Draft: "def f(): pass"}))
	assert.Equal(t, "❌ FAIL: SQL injection", reg.Auditor.Audit(context.Background(), InputReview{Content: "SELECT * FROM t WHERE id=" + "'$id'"}))

	calls := p.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "CONTENT TO AUDIT:\n\ndef f(): pass", calls[0].Last())
	assert.Equal(t, "audit-m", calls[1].Options.Model)
}

func TestAuditor_FailureString(t *testing.T) {
	p := llmtest.New(llmtest.Rule{Marker: "", Err: errors.New("502")})
	assert.Equal(t, AuditorFailure, newTestRegistry(p).Auditor.Audit(context.Background(), InputReview{Content: "x"}))
}

func TestGeneral_NoOracle(t *testing.T) {
	p := llmtest.New()
	reg := newTestRegistry(p)
	assert.Equal(t, Greeting, reg.General.Reply())
	assert.Equal(t, 0, p.CallCount())
}

func TestRepair(t *testing.T) {
	p := llmtest.New(llmtest.Rule{Marker: "correction engine", Reply: "  fixed answer \n"})
	fixed, ok := newTestRegistry(p).Repairer.Repair(context.Background(), "bad answer", "use 42")

	assert.True(t, ok)
	assert.Equal(t, "fixed answer", fixed)
	last := p.Calls()[0].Last()
	assert.Contains(t, last, "bad answer")
	assert.Contains(t, last, "use 42")
}

func TestRepair_Failure(t *testing.T) {
	p := llmtest.New(llmtest.Rule{Marker: "correction engine", Err: errors.New("down")})
	_, ok := newTestRegistry(p).Repairer.Repair(context.Background(), "a", "b")
	assert.False(t, ok)
}

func TestSettings_Merge(t *testing.T) {
	merged := testSettings.Merge(Settings{CoderModel: " qwen/qwen3-coder ", APIKey: ""})

	assert.Equal(t, "qwen/qwen3-coder", merged.CoderModel)
	assert.Equal(t, "sk-user", merged.APIKey)
	assert.Equal(t, "router-m", merged.OrchestratorModel)
	assert.Equal(t, "***", merged.Redacted().APIKey)
}
