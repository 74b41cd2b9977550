package agent

import (
	"darwinian-be/internal/pkg/logger"
	"darwinian-be/pkg/ai/router"
	"darwinian-be/pkg/llm"
)

// Registry holds one session's agents, all bound to that session's settings.
// Build a new one whenever the settings change.
type Registry struct {
	Settings Settings

	Router    *router.Router
	Ingestion *IngestionAgent
	Coder     *CoderAgent
	Auditor   *AuditorAgent
	General   GeneralAgent
	Repairer  *RepairAgent
}

func NewRegistry(provider llm.LLMProvider, settings Settings, log logger.ILogger) *Registry {
	bind := func(name, model string) caller {
		return caller{
			name:     name,
			provider: provider,
			model:    model,
			apiKey:   settings.APIKey,
			logger:   log,
		}
	}

	return &Registry{
		Settings:  settings,
		Router:    router.NewRouter(provider, settings.OrchestratorModel, settings.APIKey, log),
		Ingestion: &IngestionAgent{caller: bind("IngestionAgent", settings.IngestionModel)},
		Coder:     &CoderAgent{caller: bind("CoderAgent", settings.CoderModel)},
		Auditor:   &AuditorAgent{caller: bind("AuditorAgent", settings.AuditorModel)},
		Repairer:  &RepairAgent{caller: bind("RepairAgent", settings.RepairModel)},
	}
}
