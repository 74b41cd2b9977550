package main

import (
	"darwinian-be/internal/bootstrap"
	"darwinian-be/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	cfg *config.Config

	apiKey     string
	coderModel string
	noAudit    bool
	durable    string

	rootCmd = &cobra.Command{
		Use:   "darwin",
		Short: "Darwinian multi-agent coding assistant",
		Long: `darwin routes each request to a specialist agent (ingestion, coder,
auditor or general) and learns from the answers you approve.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
		},
	}

	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session (type good, bad or verify after an answer)",
		RunE:  runChatCommand,
	}

	refineCmd = &cobra.Command{
		Use:   "refine [question]",
		Short: "Answer a question with the generator/critic revision loop",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRefineCommand,
	}

	memoryCmd = &cobra.Command{
		Use:   "memory",
		Short: "Inspect learned memories",
	}

	memoryListCmd = &cobra.Command{
		Use:   "list",
		Short: "List every approved question/answer pair",
		RunE:  runMemoryListCommand,
	}

	eventsCmd = &cobra.Command{
		Use:   "events",
		Short: "Tail session events from NATS",
		RunE:  runEventsCommand,
	}
)

var (
	agentColor  = color.New(color.FgCyan, color.Bold)
	dimColor    = color.New(color.Faint)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	promptColor = color.New(color.FgMagenta, color.Bold)
)

func init() {
	chatCmd.Flags().StringVar(&apiKey, "api-key", "", "OpenRouter key for this session (defaults to OPENROUTER_API_KEY)")
	chatCmd.Flags().StringVar(&coderModel, "coder-model", "", "Override the coder model")
	chatCmd.Flags().BoolVar(&noAudit, "no-audit", false, "Skip the automatic audit of generated code")

	eventsCmd.Flags().StringVar(&durable, "durable", "", "Durable consumer name (empty tails only new events)")

	memoryCmd.AddCommand(memoryListCmd)
	rootCmd.AddCommand(chatCmd, refineCmd, memoryCmd, eventsCmd)
}

func newContainer() (*bootstrap.Container, error) {
	if noAudit {
		cfg.Ai.AutoAudit = false
	}
	return bootstrap.NewContainer(cfg)
}
