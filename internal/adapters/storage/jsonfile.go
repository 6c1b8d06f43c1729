// Package storage provides the file and SQLite implementations of
// ports.RecordStore.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/xvierd/taskpulse/internal/ports"
)

// jsonStore keeps each record in <dir>/<name>.json.
type jsonStore struct {
	dir string
	mu  sync.Mutex
}

// Ensure jsonStore implements ports.RecordStore.
var _ ports.RecordStore = (*jsonStore)(nil)

// NewJSON creates a file store rooted at dir, creating the directory if
// needed.
func NewJSON(dir string) (ports.RecordStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &jsonStore{dir: dir}, nil
}

func (s *jsonStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load decodes the named record into dst.
func (s *jsonStore) Load(_ context.Context, name string, dst any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return ports.ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read record %s: %w", name, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode record %s: %w", name, err)
	}
	return nil
}

// Save writes src to a temp file and renames it over the record, so a
// crash never leaves a half-written file behind.
func (s *jsonStore) Save(_ context.Context, name string, src any) error {
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write record %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write record %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		return fmt.Errorf("failed to replace record %s: %w", name, err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *jsonStore) Close() error {
	return nil
}
