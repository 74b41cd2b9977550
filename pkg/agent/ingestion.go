package agent

import "context"

// IngestionAgent digests large blocks of context into their intent and constraints.
type IngestionAgent struct {
	caller
}

// Process summarizes text. The result always carries IngestionLabel unless
// the call failed, in which case IngestionFailure is returned.
func (a *IngestionAgent) Process(ctx context.Context, text string) string {
	out, ok := a.ask(ctx, IngestionPrompt, text)
	if !ok {
		return IngestionFailure
	}
	return IngestionLabel + out
}
