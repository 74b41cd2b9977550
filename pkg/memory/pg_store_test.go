package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darwinian-be/internal/entity"
	"darwinian-be/internal/repository/contract"
	"darwinian-be/internal/repository/specification"
	"darwinian-be/pkg/embedding"
)

// fakeRepo mimics the upsert semantics of the pgvector repository.
type fakeRepo struct {
	rows    []*entity.MemoryRecord
	upserts int
}

func (f *fakeRepo) Upsert(_ context.Context, r *entity.MemoryRecord) error {
	f.upserts++
	for i, row := range f.rows {
		if row.Question == r.Question {
			f.rows[i] = r
			return nil
		}
	}
	f.rows = append(f.rows, r)
	return nil
}

func (f *fakeRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.MemoryRecord, error) {
	for _, spec := range specs {
		byQuestion, ok := spec.(specification.ByQuestion)
		if !ok {
			continue
		}
		for _, row := range f.rows {
			if row.Question == byQuestion.Question {
				return row, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.MemoryRecord, error) {
	return f.rows, nil
}

func (f *fakeRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeRepo) SearchSimilar(_ context.Context, _ []float32, limit int) ([]*contract.ScoredMemoryRecord, error) {
	var out []*contract.ScoredMemoryRecord
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, &contract.ScoredMemoryRecord{Record: f.rows[i], Similarity: 0.9})
	}
	return out, nil
}

func TestPgStore_UpsertAndRecall(t *testing.T) {
	repo := &fakeRepo{}
	s := NewPgStore(repo, embedding.NewHashProvider(768))
	ctx := context.Background()

	n, err := s.Save(ctx, "q", "old")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Save(ctx, "q", "new", WithSource(entity.MemorySourceRepaired), WithMetadata(map[string]interface{}{"session_id": "s1"}))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, repo.rows, 1)
	row := repo.rows[0]
	assert.Equal(t, "new", row.Answer)
	assert.Equal(t, entity.MemorySourceRepaired, row.Source)
	assert.Equal(t, entity.MemoryRecordId("q"), row.Id)
	assert.Len(t, row.EmbeddingValue, 768)

	lessons, err := Recall(ctx, s, "q?", 2)
	require.NoError(t, err)
	assert.Equal(t, "- Context: When asked 'q', the answer was: 'new'", lessons)
}

func TestPgStore_DefaultSource(t *testing.T) {
	repo := &fakeRepo{}
	_, err := NewPgStore(repo, embedding.NewHashProvider(8)).Save(context.Background(), "q", "a")
	require.NoError(t, err)
	assert.Equal(t, entity.MemorySourceApproved, repo.rows[0].Source)
}

func TestPgStore_IdenticalPairIsNotRewritten(t *testing.T) {
	repo := &fakeRepo{}
	s := NewPgStore(repo, embedding.NewHashProvider(8))
	ctx := context.Background()

	_, err := s.Save(ctx, "q", "a")
	require.NoError(t, err)
	n, err := s.Save(ctx, "q", "a", WithSource(entity.MemorySourceRepaired))
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, 1, repo.upserts)
	assert.Equal(t, entity.MemorySourceApproved, repo.rows[0].Source)
}
