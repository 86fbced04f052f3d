package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Slot is one named durable key holding a serialized document.
type Slot interface {
	Name() string
	// Read returns ErrSlotEmpty when nothing has been written yet.
	Read() ([]byte, error)
	Write(data []byte) error
}

// FileSlot stores a slot as {dir}/{name}.json.
type FileSlot struct {
	dir  string
	name string
}

// NewFileSlot creates a slot backed by a file in dir.
func NewFileSlot(dir, name string) *FileSlot {
	return &FileSlot{dir: dir, name: name}
}

func (s *FileSlot) Name() string {
	return s.name
}

// Path returns the backing file path.
func (s *FileSlot) Path() string {
	return filepath.Join(s.dir, s.name+".json")
}

func (s *FileSlot) Read() ([]byte, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, &SlotReadError{Slot: s.name, Cause: err}
	}
	return data, nil
}

// Write replaces the slot atomically: the document goes to a temp file in the same
// directory which is then renamed over the slot, so a crash never leaves a torn file.
func (s *FileSlot) Write(data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &SlotWriteError{Slot: s.name, Cause: err}
	}
	if err := writeFileAtomic(s.Path(), data, 0o644); err != nil {
		return &SlotWriteError{Slot: s.name, Cause: err}
	}
	return nil
}

func writeFileAtomic(path string, content []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpPath := tmpFile.Name()
	needsCleanup := true
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
		}
		if needsCleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(content); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	// Close before rename (required on some systems)
	if err := tmpFile.Close(); err != nil {
		tmpFile = nil
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	needsCleanup = false
	return nil
}

// MemorySlot keeps the slot in memory. It records every write.
type MemorySlot struct {
	mu      sync.Mutex
	name    string
	data    []byte
	writes  int
	failErr error
}

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot(name string) *MemorySlot {
	return &MemorySlot{name: name}
}

func (s *MemorySlot) Name() string {
	return s.name
}

func (s *MemorySlot) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return &SlotWriteError{Slot: s.name, Cause: s.failErr}
	}
	s.data = append([]byte(nil), data...)
	s.writes++
	return nil
}

// Writes returns the number of successful writes.
func (s *MemorySlot) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Set replaces the stored bytes without counting a write.
func (s *MemorySlot) Set(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

// FailWith makes subsequent writes fail with err; nil restores normal writes.
func (s *MemorySlot) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}
