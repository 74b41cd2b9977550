package dto

import (
	"time"

	"github.com/google/uuid"
)

// SettingsRequest overrides the server defaults. Blank fields keep the default.
type SettingsRequest struct {
	APIKey            string `json:"api_key" validate:"omitempty,min=8,max=256"`
	OrchestratorModel string `json:"orchestrator_model" validate:"omitempty,max=128"`
	IngestionModel    string `json:"ingestion_model" validate:"omitempty,max=128"`
	CoderModel        string `json:"coder_model" validate:"omitempty,max=128"`
	AuditorModel      string `json:"auditor_model" validate:"omitempty,max=128"`
	RepairModel       string `json:"repair_model" validate:"omitempty,max=128"`
}

type CreateSessionRequest struct {
	Settings SettingsRequest `json:"settings"`
}

type SettingsResponse struct {
	HasAPIKey         bool   `json:"has_api_key"`
	OrchestratorModel string `json:"orchestrator_model"`
	IngestionModel    string `json:"ingestion_model"`
	CoderModel        string `json:"coder_model"`
	AuditorModel      string `json:"auditor_model"`
	RepairModel       string `json:"repair_model"`
}

type SessionResponse struct {
	Id        uuid.UUID        `json:"id"`
	Settings  SettingsResponse `json:"settings"`
	Greeting  string           `json:"greeting,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// SendMessageRequest may carry an empty message; the assistant answers it
// with a greeting.
type SendMessageRequest struct {
	Message string `json:"message" validate:"max=200000"`
}

type StepResponse struct {
	Node      string `json:"node"`
	Agent     string `json:"agent,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
	Plan      string `json:"plan,omitempty"`
}

// Actions offered on a finished turn
const (
	ActionGood   = "good"
	ActionVerify = "verify"
	ActionBad    = "bad"
)

type TurnResponse struct {
	TurnId         uuid.UUID      `json:"turn_id"`
	SessionId      uuid.UUID      `json:"session_id"`
	Agent          string         `json:"agent"`
	Reasoning      string         `json:"reasoning"`
	Plan           string         `json:"plan,omitempty"`
	Output         string         `json:"output"`
	Draft          string         `json:"draft,omitempty"`
	Audit          string         `json:"audit,omitempty"`
	CodeGenerated  bool           `json:"code_generated"`
	RecalledMemory bool           `json:"recalled_memory"`
	Steps          []StepResponse `json:"steps"`
	Actions        []string       `json:"actions"`
}

type ApproveResponse struct {
	TotalMemories int `json:"total_memories"`
}

type RejectRequest struct {
	Feedback string `json:"feedback" validate:"required,max=20000"`
}

type RejectResponse struct {
	Fixed         string `json:"fixed"`
	Saved         bool   `json:"saved"`
	TotalMemories int    `json:"total_memories"`
}

type VerifyResponse struct {
	Report string `json:"report"`
}
