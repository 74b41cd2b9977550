package mapper

import (
	"encoding/json"
	"time"

	"darwinian-be/internal/entity"
	"darwinian-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type MemoryRecordMapper struct{}

func NewMemoryRecordMapper() *MemoryRecordMapper {
	return &MemoryRecordMapper{}
}

func (m *MemoryRecordMapper) ToEntity(r *model.MemoryRecord) *entity.MemoryRecord {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	var metadata map[string]interface{}
	if len(r.Metadata) > 0 {
		// Broken metadata should not hide the answer
		_ = json.Unmarshal(r.Metadata, &metadata)
	}

	return &entity.MemoryRecord{
		Id:             r.Id,
		Question:       r.Question,
		Answer:         r.Answer,
		EmbeddingValue: r.EmbeddingValue.Slice(),
		Source:         r.Source,
		Metadata:       metadata,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *MemoryRecordMapper) ToModel(e *entity.MemoryRecord) *model.MemoryRecord {
	if e == nil {
		return nil
	}

	var metadata datatypes.JSON
	if len(e.Metadata) > 0 {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.MemoryRecord{
		Id:             e.Id,
		Question:       e.Question,
		Answer:         e.Answer,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		Source:         e.Source,
		Metadata:       metadata,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}
