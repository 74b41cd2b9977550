package workflow

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"darwinian-be/internal/pkg/logger"
	"darwinian-be/pkg/llm"
)

const (
	// ScoreThreshold ends the loop early once the critic is satisfied.
	ScoreThreshold = 8
	// MaxRevisions is the last revision number that may still be retried.
	MaxRevisions = 3
	// maxIterations is a hard ceiling independent of ShouldContinue.
	maxIterations = 7

	refineModule = "Refiner"
)

const generatorPrompt = `You are a careful problem solver.
Answer the question with clear, numbered reasoning steps and end with the final answer.
If a previous draft and a critique are given, fix every issue the critique raises.`

const criticPrompt = `You are a strict critic.
Check the draft answer to the question for mistakes in logic and arithmetic.
Reply with detailed feedback on what is wrong, then a final line of the form:
SCORE: <integer from 0 to 10>`

var scoreLinePattern = regexp.MustCompile(`(?i)SCORE\s*[:=]\s*(\d+)`)

// RevisionState is the generator/critic loop record.
type RevisionState struct {
	Question       string `json:"question"`
	Draft          string `json:"draft"`
	Critique       string `json:"critique"`
	RevisionNumber int    `json:"revision_number"`
	Score          int    `json:"score"`
}

// ExtractScore reads the critic's "SCORE: n" line. Without one the draft
// scores 0, numbers in the feedback prose are never taken as a score.
// Result is clamped to 0..10.
func ExtractScore(text string) int {
	m := scoreLinePattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// only digits match, so the sole failure is overflow
		return 10
	}
	switch {
	case n < 0:
		return 0
	case n > 10:
		return 10
	}
	return n
}

// ShouldContinue is the critic's conditional edge.
func ShouldContinue(s RevisionState) bool {
	if s.Score >= ScoreThreshold {
		return false
	}
	if s.RevisionNumber > MaxRevisions {
		return false
	}
	return true
}

// RefineObserver is called after every critic pass.
type RefineObserver func(RevisionState)

// Refiner runs the generator/critic revision loop on one model.
type Refiner struct {
	provider llm.LLMProvider
	model    string
	tracer   trace.Tracer
	logger   logger.ILogger
}

func NewRefiner(provider llm.LLMProvider, model string, log logger.ILogger) *Refiner {
	return &Refiner{
		provider: provider,
		model:    model,
		tracer:   otel.Tracer("darwinian-be/refine"),
		logger:   log,
	}
}

// Run iterates generator then critic until ShouldContinue says stop. A
// generator failure ends the loop and is returned with the state so far.
func (r *Refiner) Run(ctx context.Context, question string, observe RefineObserver) (RevisionState, error) {
	state := RevisionState{Question: question}

	for i := 0; i < maxIterations; i++ {
		iterCtx, span := r.tracer.Start(ctx, "refine.iteration")

		if err := r.generate(iterCtx, &state); err != nil {
			span.RecordError(err)
			span.End()
			return state, err
		}
		r.critique(iterCtx, &state)

		span.SetAttributes(
			attribute.Int("revision", state.RevisionNumber),
			attribute.Int("score", state.Score),
		)
		span.End()

		if observe != nil {
			observe(state)
		}

		if !ShouldContinue(state) {
			r.logger.Info(refineModule, "Loop finished", map[string]interface{}{
				"revision": state.RevisionNumber,
				"score":    state.Score,
			})
			return state, nil
		}
		r.logger.Debug(refineModule, "Score too low, retrying", map[string]interface{}{"score": state.Score})
	}
	return state, nil
}

func (r *Refiner) generate(ctx context.Context, s *RevisionState) error {
	var b strings.Builder
	fmt.Fprintf(&b, "QUESTION:\n%s\n", s.Question)
	if s.Draft != "" {
		fmt.Fprintf(&b, "\nPREVIOUS DRAFT:\n%s\n", s.Draft)
	}
	if s.Critique != "" {
		fmt.Fprintf(&b, "\nCRITIQUE:\n%s\n", s.Critique)
	}

	out, err := r.provider.Chat(ctx,
		[]llm.Message{llm.System(generatorPrompt), llm.User(b.String())},
		llm.WithModel(r.model),
	)
	if err != nil {
		r.logger.Error(refineModule, "Generator failed", map[string]interface{}{
			"revision": s.RevisionNumber,
			"error":    err.Error(),
		})
		return fmt.Errorf("refine: generator at revision %d: %w", s.RevisionNumber, err)
	}

	s.Draft = strings.TrimSpace(out)
	s.RevisionNumber++
	return nil
}

// critique never fails: an oracle error scores the draft 0.
func (r *Refiner) critique(ctx context.Context, s *RevisionState) {
	out, err := r.provider.Chat(ctx,
		[]llm.Message{
			llm.System(criticPrompt),
			llm.User(fmt.Sprintf("QUESTION:\n%s\n\nDRAFT:\n%s", s.Question, s.Draft)),
		},
		llm.WithModel(r.model),
	)
	if err != nil {
		r.logger.Warn(refineModule, "Critic failed, scoring 0", map[string]interface{}{"error": err.Error()})
		s.Critique = ""
		s.Score = 0
		return
	}

	s.Critique = strings.TrimSpace(scoreLinePattern.ReplaceAllString(out, ""))
	s.Score = ExtractScore(out)
}
