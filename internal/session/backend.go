package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Backend is the raw storage under a Store. Implementations report
// failures as errors; the Store converts them to the fail-soft results its
// callers see. Read on an absent record returns an error satisfying
// os.IsNotExist semantics or any other error; the Store does not
// distinguish.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Delete() error
}

// FileBackend stores the record as a single JSON file. Writes go through a
// temp file in the same directory followed by a rename, so a crash mid-save
// leaves the prior record intact.
type FileBackend struct {
	path string
}

// NewFileBackend creates a FileBackend at the given path. Parent
// directories are created on first write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Read() ([]byte, error) {
	return os.ReadFile(b.path)
}

func (b *FileBackend) Write(data []byte) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "session-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

func (b *FileBackend) Delete() error {
	err := os.Remove(b.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemoryBackend keeps the record in memory. It backs tests and runs where
// nothing should touch disk.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

func (b *MemoryBackend) Read() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.set {
		return nil, os.ErrNotExist
	}
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out, nil
}

func (b *MemoryBackend) Write(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data[:0], data...)
	b.set = true
	return nil
}

func (b *MemoryBackend) Delete() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
	b.set = false
	return nil
}
