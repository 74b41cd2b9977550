package agent

import (
	"context"
	"fmt"
	"strings"
)

// RepairAgent rewrites a rejected answer according to user feedback.
type RepairAgent struct {
	caller
}

// Repair returns the corrected draft. ok is false when the oracle failed, in
// which case the caller should keep the original.
func (a *RepairAgent) Repair(ctx context.Context, draft, feedback string) (string, bool) {
	user := fmt.Sprintf("ORIGINAL DRAFT:\n%s\n\nUSER FEEDBACK:\n%s", draft, feedback)
	out, ok := a.ask(ctx, RepairPrompt, user)
	if !ok || strings.TrimSpace(out) == "" {
		return RepairFailure, false
	}
	return strings.TrimSpace(out), true
}
