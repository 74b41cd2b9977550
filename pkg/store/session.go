package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"darwinian-be/pkg/agent"
)

// maxHistory bounds how many past exchanges are kept for routing context
const maxHistory = 5

var ErrSessionNotFound = errors.New("session not found")

// Exchange is one finished turn as the router sees it.
type Exchange struct {
	Question string `json:"question"`
	Agent    string `json:"agent"`
}

// Session represents the chat session state kept between requests
type Session struct {
	ID       string         `json:"id"`
	UserID   string         `json:"user_id,omitempty"`
	Settings agent.Settings `json:"settings"`

	// Metadata for last interaction, read by approve/reject/verify
	LastQuestion  string `json:"last_question"`
	LastOutput    string `json:"last_output"`
	CodeGenerated bool   `json:"code_generated"`

	History   []Exchange `json:"history"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// HasAnswer reports whether there is a finished turn to act on.
func (s *Session) HasAnswer() bool {
	return s.LastQuestion != "" && s.LastOutput != ""
}

// Remember appends an exchange, dropping the oldest beyond maxHistory.
func (s *Session) Remember(question, agentName string) {
	s.History = append(s.History, Exchange{Question: question, Agent: agentName})
	if len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}
}

// HistoryText renders the history for the router prompt.
func (s *Session) HistoryText() string {
	lines := make([]string, len(s.History))
	for i, ex := range s.History {
		lines[i] = "User: " + ex.Question + " (handled by " + ex.Agent + ")"
	}
	return strings.Join(lines, "\n")
}

// SessionRepository stores sessions. Implementations must be safe for
// concurrent use.
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	// Get returns ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
