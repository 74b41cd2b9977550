// Package memory keeps question/answer pairs the user approved and recalls
// them as lessons for later turns.
package memory

import (
	"context"
	"fmt"
	"strings"
)

// Record is one learned question/answer pair.
type Record struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SaveOptions carry provenance for backends that can store it.
type SaveOptions struct {
	Source   string
	Metadata map[string]interface{}
}

type SaveOption func(*SaveOptions)

func WithSource(source string) SaveOption {
	return func(o *SaveOptions) { o.Source = source }
}

func WithMetadata(md map[string]interface{}) SaveOption {
	return func(o *SaveOptions) { o.Metadata = md }
}

func applySaveOptions(opts []SaveOption) SaveOptions {
	var o SaveOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Store is implemented by every memory backend.
type Store interface {
	// Save records the pair and returns the total number of records.
	Save(ctx context.Context, question, answer string, opts ...SaveOption) (int, error)
	// Relevant returns up to k records for query, best first.
	Relevant(ctx context.Context, query string, k int) ([]Record, error)
	All(ctx context.Context) ([]Record, error)
	Count(ctx context.Context) (int, error)
	// Format renders records the way this backend presents lessons.
	Format(records []Record) string
}

// FormatFlat renders records as Q/A bullets.
func FormatFlat(records []Record) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("- Q: %s\n  A: %s", r.Question, r.Answer)
	}
	return strings.Join(lines, "\n")
}

// FormatVector renders records as recalled context sentences.
func FormatVector(records []Record) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("- Context: When asked '%s', the answer was: '%s'", r.Question, r.Answer)
	}
	return strings.Join(lines, "\n")
}

// Recall fetches and formats the lessons relevant to query. An empty store
// yields "".
func Recall(ctx context.Context, s Store, query string, k int) (string, error) {
	records, err := s.Relevant(ctx, query, k)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", nil
	}
	return s.Format(records), nil
}

// MemoryHeader separates the user's message from recalled lessons.
const MemoryHeader = "\n\n[MEMORY]\n"

// Augment appends lessons to input. Blank lessons leave input unchanged.
func Augment(input, lessons string) string {
	if strings.TrimSpace(lessons) == "" {
		return input
	}
	return input + MemoryHeader + lessons
}
