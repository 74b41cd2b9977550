package agent

import "strings"

// Settings are the per-session model choices and credential.
type Settings struct {
	APIKey            string `json:"api_key,omitempty"`
	OrchestratorModel string `json:"orchestrator_model"`
	IngestionModel    string `json:"ingestion_model"`
	CoderModel        string `json:"coder_model"`
	AuditorModel      string `json:"auditor_model"`
	RepairModel       string `json:"repair_model"`
}

// Merge returns s with every non-blank field of override applied on top.
func (s Settings) Merge(override Settings) Settings {
	pick := func(base, over string) string {
		if strings.TrimSpace(over) != "" {
			return strings.TrimSpace(over)
		}
		return base
	}
	return Settings{
		APIKey:            pick(s.APIKey, override.APIKey),
		OrchestratorModel: pick(s.OrchestratorModel, override.OrchestratorModel),
		IngestionModel:    pick(s.IngestionModel, override.IngestionModel),
		CoderModel:        pick(s.CoderModel, override.CoderModel),
		AuditorModel:      pick(s.AuditorModel, override.AuditorModel),
		RepairModel:       pick(s.RepairModel, override.RepairModel),
	}
}

// Redacted hides the credential for logging and API responses.
func (s Settings) Redacted() Settings {
	if s.APIKey != "" {
		s.APIKey = "***"
	}
	return s
}
