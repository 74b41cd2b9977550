package workflow

import "fmt"

const (
	draftHeader = "💻 **Generated Code:**\n\n"
	auditHeader = "🧐 **Audit Report:**\n\n"
)

// FormatDraft is how a bare coder draft is shown to the user.
func FormatDraft(draft string) string {
	return draftHeader + draft
}

// FormatAudit is how an audit report is shown to the user.
func FormatAudit(report string) string {
	return auditHeader + report
}

// FormatPipelineOutput combines a coder draft with its automatic audit.
func FormatPipelineOutput(draft, audit string) string {
	return fmt.Sprintf("%s\n\n---\n\n%s", FormatDraft(draft), FormatAudit(audit))
}
