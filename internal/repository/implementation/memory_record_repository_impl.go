package implementation

import (
	"context"
	"errors"
	"time"

	"darwinian-be/internal/entity"
	"darwinian-be/internal/mapper"
	"darwinian-be/internal/model"
	"darwinian-be/internal/repository/contract"
	"darwinian-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemoryRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryRecordMapper
}

func NewMemoryRecordRepository(db *gorm.DB) contract.MemoryRecordRepository {
	return &MemoryRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryRecordMapper(),
	}
}

func (r *MemoryRecordRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MemoryRecordRepositoryImpl) Upsert(ctx context.Context, record *entity.MemoryRecord) error {
	m := r.mapper.ToModel(record)
	if m.Id == uuid.Nil {
		m.Id = entity.MemoryRecordId(m.Question)
	}
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "question"}},
		DoUpdates: clause.Assignments(map[string]any{
			"answer":          m.Answer,
			"embedding_value": m.EmbeddingValue,
			"source":          m.Source,
			"metadata":        m.Metadata,
			"updated_at":      now,
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemoryRecordRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MemoryRecord, error) {
	var m model.MemoryRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MemoryRecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryRecord, error) {
	var models []*model.MemoryRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.MemoryRecord, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *MemoryRecordRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.MemoryRecord{}).Count(&count).Error
	return count, err
}

// SearchSimilar returns the closest records by cosine distance.
func (r *MemoryRecordRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredMemoryRecord, error) {
	if limit <= 0 {
		limit = 2
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	type result struct {
		model.MemoryRecord
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("memory_records").
		Select("memory_records.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredMemoryRecord, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredMemoryRecord{
			Record:     r.mapper.ToEntity(&res.MemoryRecord),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
