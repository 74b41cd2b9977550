package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// MemoryRecord rows are hard-deleted: the unique question index is the upsert target.
type MemoryRecord struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Question       string          `gorm:"type:text;not null;uniqueIndex"`
	Answer         string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text and the hash embedder default to 768
	Source         string          `gorm:"type:varchar(32);default:'approved'"`
	Metadata       datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (MemoryRecord) TableName() string {
	return "memory_records"
}
