package rating

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/tennis-edge/internal/models"
)

// ErrSnapshotAbsent is returned by Load when no snapshot has been saved yet
var ErrSnapshotAbsent = fmt.Errorf("rating snapshot: %w", models.ErrPersistenceAbsent)

// SnapshotStore persists the full player rating map as one opaque blob
type SnapshotStore interface {
	Load(ctx context.Context) (map[string]models.RatingSet, error)
	Save(ctx context.Context, snapshot map[string]models.RatingSet) error
}

// Encode serialises a rating map into the binary snapshot format
func Encode(snapshot map[string]models.RatingSet) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snapshot); err != nil {
		return nil, fmt.Errorf("failed to encode rating snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a blob produced by Encode
func Decode(data []byte) (map[string]models.RatingSet, error) {
	snapshot := make(map[string]models.RatingSet)
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode rating snapshot: %w", err)
	}
	return snapshot, nil
}

// FileSnapshotStore keeps the snapshot in a single file on disk
type FileSnapshotStore struct {
	Path string
}

// NewFileSnapshotStore creates a file backed snapshot store
func NewFileSnapshotStore(path string) *FileSnapshotStore {
	return &FileSnapshotStore{Path: path}
}

// Load reads the snapshot file. A missing or empty file yields ErrSnapshotAbsent.
func (fs *FileSnapshotStore) Load(ctx context.Context) (map[string]models.RatingSet, error) {
	_ = ctx
	data, err := os.ReadFile(fs.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSnapshotAbsent
		}
		return nil, fmt.Errorf("failed to read rating snapshot %s: %w", fs.Path, err)
	}
	if len(data) == 0 {
		return nil, ErrSnapshotAbsent
	}
	return Decode(data)
}

// Save writes the snapshot to a temp file and renames it over the old one
func (fs *FileSnapshotStore) Save(ctx context.Context, snapshot map[string]models.RatingSet) error {
	_ = ctx
	data, err := Encode(snapshot)
	if err != nil {
		return err
	}

	dir := filepath.Dir(fs.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fs.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write rating snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close rating snapshot: %w", err)
	}
	if err := os.Rename(tmpName, fs.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace rating snapshot: %w", err)
	}
	return nil
}

// MemorySnapshotStore keeps the encoded snapshot in memory, mostly for tests
type MemorySnapshotStore struct {
	data []byte
}

// NewMemorySnapshotStore creates an empty in-memory snapshot store
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

// Load decodes the last saved snapshot
func (ms *MemorySnapshotStore) Load(ctx context.Context) (map[string]models.RatingSet, error) {
	_ = ctx
	if len(ms.data) == 0 {
		return nil, ErrSnapshotAbsent
	}
	return Decode(ms.data)
}

// Save encodes and keeps the snapshot
func (ms *MemorySnapshotStore) Save(ctx context.Context, snapshot map[string]models.RatingSet) error {
	_ = ctx
	data, err := Encode(snapshot)
	if err != nil {
		return err
	}
	ms.data = data
	return nil
}
