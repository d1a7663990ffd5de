package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/yourusername/tennis-edge/internal/models"
)

// Repository persists ledger entries. Entries are keyed by their Index.
type Repository interface {
	List(ctx context.Context) ([]*models.MatchEntry, error)
	Insert(ctx context.Context, entry *models.MatchEntry) error
	Update(ctx context.Context, entry *models.MatchEntry) error
	Close() error
}

// MemoryRepository keeps entries in process memory
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[int]*models.MatchEntry
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[int]*models.MatchEntry)}
}

// List returns all entries ordered by index
func (m *MemoryRepository) List(ctx context.Context) ([]*models.MatchEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.MatchEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// Insert stores a new entry
func (m *MemoryRepository) Insert(ctx context.Context, entry *models.MatchEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Index] = entry.Clone()
	return nil
}

// Update replaces an existing entry
func (m *MemoryRepository) Update(ctx context.Context, entry *models.MatchEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.Index]; !ok {
		return models.ErrNotFound
	}
	m.entries[entry.Index] = entry.Clone()
	return nil
}

// Close is a no-op
func (m *MemoryRepository) Close() error {
	return nil
}
