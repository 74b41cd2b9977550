package events

import (
	"encoding/json"
	"time"
)

// Event types published while a session is used.
const (
	TypeTurnStarted   = "TURN_STARTED"
	TypeTurnStep      = "TURN_STEP"
	TypeTurnCompleted = "TURN_COMPLETED"
	TypeMemorySaved   = "MEMORY_SAVED"
	TypeAnswerRepair  = "ANSWER_REPAIRED"
	TypeAuditReport   = "AUDIT_REPORT"
	TypeRefineStep    = "REFINE_STEP"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TURN_STEP").
	EventType() string

	// SessionID is the chat session the event belongs to, "" for global events.
	SessionID() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the only Event implementation; events travel as JSON.
type BaseEvent struct {
	Type       string                 `json:"type"`
	Session    string                 `json:"session_id,omitempty"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType, sessionID string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Session:    sessionID,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) SessionID() string {
	return e.Session
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Marshal encodes any Event into the wire envelope.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(BaseEvent{
		Type:       e.EventType(),
		Session:    e.SessionID(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp(),
	})
}

// Unmarshal decodes the wire envelope.
func Unmarshal(data []byte) (BaseEvent, error) {
	var e BaseEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
