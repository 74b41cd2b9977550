package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"darwinian-be/internal/pkg/logger"
)

// FileStore keeps every record in one JSON array file, rewritten on each save.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger logger.ILogger
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string, log logger.ILogger) *FileStore {
	return &FileStore{path: path, logger: log}
}

// load treats a missing or corrupt file as empty.
func (s *FileStore) load() []Record {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("MemoryFile", "Failed to read memory file", map[string]interface{}{
				"path":  s.path,
				"error": err.Error(),
			})
		}
		return nil
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		s.logger.Warn("MemoryFile", "Memory file is not valid JSON, starting empty", map[string]interface{}{
			"path":  s.path,
			"error": err.Error(),
		})
		return nil
	}
	return records
}

func (s *FileStore) write(records []Record) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	// Write then rename so a crash never leaves a half-written file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Save appends the pair unless the exact same pair is already stored.
func (s *FileStore) Save(ctx context.Context, question, answer string, _ ...SaveOption) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	for _, r := range records {
		if r.Question == question && r.Answer == answer {
			return len(records), nil
		}
	}

	records = append(records, Record{Question: question, Answer: answer})
	if err := s.write(records); err != nil {
		return 0, fmt.Errorf("memory: write %s: %w", s.path, err)
	}
	return len(records), nil
}

// Relevant returns the k most recent records; query is not consulted.
func (s *FileStore) Relevant(_ context.Context, _ string, k int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	if k <= 0 || len(records) == 0 {
		return nil, nil
	}
	if k > len(records) {
		k = len(records)
	}
	return records[len(records)-k:], nil
}

func (s *FileStore) All(_ context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

func (s *FileStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.load()), nil
}

func (s *FileStore) Format(records []Record) string { return FormatFlat(records) }
