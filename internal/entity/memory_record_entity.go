package entity

import (
	"time"

	"github.com/google/uuid"
)

// Memory record sources
const (
	MemorySourceApproved = "approved"
	MemorySourceRepaired = "repaired"
)

type MemoryRecord struct {
	Id             uuid.UUID
	Question       string
	Answer         string
	EmbeddingValue []float32
	Source         string
	Metadata       map[string]interface{}
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// MemoryRecordId is the deterministic id of the record stored for question.
func MemoryRecordId(question string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(question))
}
