package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darwinian-be/internal/pkg/logger"
	"darwinian-be/pkg/llm/llmtest"
)

const (
	generatorMarker = "careful problem solver"
	criticMarker    = "strict critic"
)

func TestExtractScore(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"SCORE: 7", 7},
		{"Mostly fine.\nscore = 9", 9},
		{"Step 2 is wrong. SCORE: 4", 4},
		{"I'd give it 6 out of 10", 0},
		{"Step 9 is wrong, the answer should be 3.", 0},
		{"There are 10 mistakes in this draft.", 0},
		{"SCORE: 99999999999999999999", 10},
		{"no number here", 0},
		{"", 0},
		{"SCORE: 42", 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractScore(tt.in), tt.in)
	}
}

func TestShouldContinue(t *testing.T) {
	assert.False(t, ShouldContinue(RevisionState{Score: 8, RevisionNumber: 1}))
	assert.False(t, ShouldContinue(RevisionState{Score: 2, RevisionNumber: 4}))
	assert.True(t, ShouldContinue(RevisionState{Score: 7, RevisionNumber: 3}))
	assert.True(t, ShouldContinue(RevisionState{Score: 0, RevisionNumber: 1}))
}

func TestRefiner_EndsAfterMaxRevisionsRegardlessOfScore(t *testing.T) {
	p := llmtest.New(
		llmtest.Rule{Marker: generatorMarker, Reply: "draft"},
		llmtest.Rule{Marker: criticMarker, Reply: "Wrong.\nSCORE: 3"},
	)
	var seen []RevisionState

	out, err := NewRefiner(p, "llama3", logger.NewNopLogger()).Run(context.Background(), "3 apples...", func(s RevisionState) {
		seen = append(seen, s)
	})
	require.NoError(t, err)

	assert.Equal(t, MaxRevisions+1, out.RevisionNumber)
	assert.Equal(t, 3, out.Score)
	assert.Equal(t, "Wrong.", out.Critique)
	assert.Len(t, seen, MaxRevisions+1)
	assert.Equal(t, 2*(MaxRevisions+1), p.CallCount())
}

func TestRefiner_StopsAtFirstGoodScore(t *testing.T) {
	p := llmtest.New(
		llmtest.Rule{Marker: generatorMarker, Reply: "Answer: 3"},
		llmtest.Rule{Marker: criticMarker, Reply: "Correct. SCORE: 9"},
	)

	out, err := NewRefiner(p, "llama3", logger.NewNopLogger()).Run(context.Background(), "q", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, out.RevisionNumber)
	assert.Equal(t, 9, out.Score)
	assert.Equal(t, "Answer: 3", out.Draft)
	assert.Equal(t, 2, p.CallCount())
}

func TestRefiner_FeedsCritiqueBack(t *testing.T) {
	p := llmtest.New(llmtest.Rule{Marker: generatorMarker, Reply: "draft"})
	p.Enqueue(criticMarker, "step 2 is off. SCORE: 2", "good now. SCORE: 8")

	out, err := NewRefiner(p, "llama3", logger.NewNopLogger()).Run(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, out.RevisionNumber)

	calls := p.Calls()
	require.Len(t, calls, 4)
	assert.Contains(t, calls[2].Last(), "PREVIOUS DRAFT:\ndraft")
	assert.Contains(t, calls[2].Last(), "step 2 is off.")
	assert.Equal(t, "llama3", calls[2].Options.Model)
}

func TestRefiner_CriticFailureScoresZero(t *testing.T) {
	p := llmtest.New(
		llmtest.Rule{Marker: generatorMarker, Reply: "draft"},
		llmtest.Rule{Marker: criticMarker, Err: errors.New("ollama down")},
	)

	out, err := NewRefiner(p, "llama3", logger.NewNopLogger()).Run(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Score)
	assert.Equal(t, MaxRevisions+1, out.RevisionNumber)
}

func TestRefiner_MissingScoreLineKeepsRevising(t *testing.T) {
	p := llmtest.New(
		llmtest.Rule{Marker: generatorMarker, Reply: "draft"},
		llmtest.Rule{Marker: criticMarker, Reply: "Step 9 is wrong, the answer should be 3."},
	)

	out, err := NewRefiner(p, "llama3", logger.NewNopLogger()).Run(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Score)
	assert.Equal(t, MaxRevisions+1, out.RevisionNumber)
	assert.Equal(t, 2*(MaxRevisions+1), p.CallCount())
}

func TestRefiner_GeneratorFailureReturnsError(t *testing.T) {
	p := llmtest.New(llmtest.Rule{Marker: generatorMarker, Err: errors.New("ollama down")})

	out, err := NewRefiner(p, "llama3", logger.NewNopLogger()).Run(context.Background(), "q", nil)
	require.Error(t, err)
	assert.Equal(t, 0, out.RevisionNumber)
}
