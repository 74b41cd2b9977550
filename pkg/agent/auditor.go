package agent

import (
	"context"
	"fmt"
)

// AuditRequest selects how the auditor reviews content. The set is closed:
// CodeReview and InputReview are the only implementations.
type AuditRequest interface {
	content() string
	systemPrompt() string
	Mode() string
}

// CodeReview audits a draft produced by the coder and rewrites it if bad.
type CodeReview struct {
	Draft string
}

func (r CodeReview) content() string      { return r.Draft }
func (r CodeReview) systemPrompt() string { return CodeReviewPrompt }
func (r CodeReview) Mode() string         { return "generated_code" }

// InputReview audits code or text the user sent.
type InputReview struct {
	Content string
}

func (r InputReview) content() string      { return r.Content }
func (r InputReview) systemPrompt() string { return InputReviewPrompt }
func (r InputReview) Mode() string         { return "user_input" }

// AuditorAgent reviews content for correctness and security.
type AuditorAgent struct {
	caller
}

func (a *AuditorAgent) Audit(ctx context.Context, req AuditRequest) string {
	a.logger.Info(a.name, "Reviewing", map[string]interface{}{"mode": req.Mode()})

	out, ok := a.ask(ctx, req.systemPrompt(), fmt.Sprintf("CONTENT TO AUDIT:\n\n%s", req.content()))
	if !ok {
		return AuditorFailure
	}
	return out
}
