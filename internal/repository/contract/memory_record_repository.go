package contract

import (
	"context"

	"darwinian-be/internal/entity"
	"darwinian-be/internal/repository/specification"
)

// ScoredMemoryRecord wraps MemoryRecord with its similarity score
type ScoredMemoryRecord struct {
	Record     *entity.MemoryRecord
	Similarity float64 // 1.0 = identical
}

type MemoryRecordRepository interface {
	// Upsert inserts the record or overwrites the answer stored for the same question.
	Upsert(ctx context.Context, record *entity.MemoryRecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MemoryRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*ScoredMemoryRecord, error)
}
