package agent

import (
	"context"
	"fmt"
	"strings"
)

// CoderAgent writes code for a request.
type CoderAgent struct {
	caller
}

// WriteCode produces a draft. A non-empty plan is included verbatim in the
// system prompt.
func (a *CoderAgent) WriteCode(ctx context.Context, request, plan string) string {
	system := CoderPrompt
	if strings.TrimSpace(plan) != "" {
		system += fmt.Sprintf(coderPlanSection, plan)
	}

	out, ok := a.ask(ctx, system, request)
	if !ok {
		return CoderFailure
	}
	return out
}
