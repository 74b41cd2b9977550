package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"darwinian-be/pkg/embedding"
)

type vectorEntry struct {
	record Record
	vector []float32
}

// VectorStore is an in-process vector memory keyed by question text. Saving
// an existing question overwrites its answer.
type VectorStore struct {
	mu       sync.RWMutex
	entries  []*vectorEntry
	byID     map[string]*vectorEntry
	embedder embedding.EmbeddingProvider
}

var _ Store = (*VectorStore)(nil)

func NewVectorStore(embedder embedding.EmbeddingProvider) *VectorStore {
	return &VectorStore{
		byID:     make(map[string]*vectorEntry),
		embedder: embedder,
	}
}

func (s *VectorStore) Save(ctx context.Context, question, answer string, _ ...SaveOption) (int, error) {
	res, err := s.embedder.Generate(ctx, question, embedding.TaskDocument)
	if err != nil {
		return 0, fmt.Errorf("memory: embed question: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.byID[question]; ok {
		e.record.Answer = answer
		e.vector = res.Embedding.Values
		return len(s.entries), nil
	}

	e := &vectorEntry{record: Record{Question: question, Answer: answer}, vector: res.Embedding.Values}
	s.entries = append(s.entries, e)
	s.byID[question] = e
	return len(s.entries), nil
}

func (s *VectorStore) Relevant(ctx context.Context, query string, k int) ([]Record, error) {
	s.mu.RLock()
	empty := len(s.entries) == 0
	s.mu.RUnlock()
	if empty || k <= 0 {
		return nil, nil
	}

	res, err := s.embedder.Generate(ctx, query, embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("memory: embed query: %w", err)
	}
	q := res.Embedding.Values

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		record Record
		score  float32
	}
	results := make([]scored, len(s.entries))
	for i, e := range s.entries {
		results[i] = scored{record: e.record, score: cosineSimilarity(q, e.vector)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}
	out := make([]Record, k)
	for i := 0; i < k; i++ {
		out[i] = results[i].record
	}
	return out, nil
}

func (s *VectorStore) All(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.record
	}
	return out, nil
}

func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *VectorStore) Format(records []Record) string { return FormatVector(records) }

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)))
}
