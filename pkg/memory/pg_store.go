package memory

import (
	"context"
	"fmt"

	"darwinian-be/internal/entity"
	"darwinian-be/internal/repository/contract"
	"darwinian-be/internal/repository/specification"
	"darwinian-be/pkg/embedding"
)

// PgStore persists vector memory in Postgres through pgvector.
type PgStore struct {
	repo     contract.MemoryRecordRepository
	embedder embedding.EmbeddingProvider
}

var _ Store = (*PgStore)(nil)

func NewPgStore(repo contract.MemoryRecordRepository, embedder embedding.EmbeddingProvider) *PgStore {
	return &PgStore{repo: repo, embedder: embedder}
}

func (s *PgStore) Save(ctx context.Context, question, answer string, opts ...SaveOption) (int, error) {
	o := applySaveOptions(opts)
	if o.Source == "" {
		o.Source = entity.MemorySourceApproved
	}

	// Same pair already stored: skip the embedding call and the write
	existing, err := s.repo.FindOne(ctx, specification.ByQuestion{Question: question})
	if err != nil {
		return 0, fmt.Errorf("memory: lookup: %w", err)
	}
	if existing != nil && existing.Answer == answer {
		return s.Count(ctx)
	}

	res, err := s.embedder.Generate(ctx, question, embedding.TaskDocument)
	if err != nil {
		return 0, fmt.Errorf("memory: embed question: %w", err)
	}

	record := &entity.MemoryRecord{
		Id:             entity.MemoryRecordId(question),
		Question:       question,
		Answer:         answer,
		EmbeddingValue: res.Embedding.Values,
		Source:         o.Source,
		Metadata:       o.Metadata,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return 0, fmt.Errorf("memory: upsert: %w", err)
	}
	return s.Count(ctx)
}

func (s *PgStore) Relevant(ctx context.Context, query string, k int) ([]Record, error) {
	if k <= 0 {
		return nil, nil
	}
	res, err := s.embedder.Generate(ctx, query, embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("memory: embed query: %w", err)
	}

	scored, err := s.repo.SearchSimilar(ctx, res.Embedding.Values, k)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(scored))
	for i, sr := range scored {
		out[i] = Record{Question: sr.Record.Question, Answer: sr.Record.Answer}
	}
	return out, nil
}

func (s *PgStore) All(ctx context.Context) ([]Record, error) {
	rows, err := s.repo.FindAll(ctx, specification.Oldest())
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = Record{Question: r.Question, Answer: r.Answer}
	}
	return out, nil
}

func (s *PgStore) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	return int(n), err
}

func (s *PgStore) Format(records []Record) string { return FormatVector(records) }
