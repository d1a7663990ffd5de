package rating

import (
	"sort"
	"sync"

	"github.com/yourusername/tennis-edge/internal/models"
)

// Store holds one rating set per player. Records are created lazily on first
// reference, overwritten in place on update and never deleted.
type Store struct {
	mu      sync.RWMutex
	players map[string]models.RatingSet
}

// NewStore creates an empty rating store
func NewStore() *Store {
	return &Store{players: make(map[string]models.RatingSet)}
}

// GetOrCreate returns the rating set for name, inserting default records for
// an unseen player first
func (s *Store) GetOrCreate(name string) models.RatingSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.players[name]
	if !ok {
		set = models.NewRatingSet()
		s.players[name] = set
	}
	return set.Clone()
}

// Get returns the rating set for name without creating it
func (s *Store) Get(name string) (models.RatingSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.players[name]
	if !ok {
		return models.RatingSet{}, false
	}
	return set.Clone(), true
}

// Put overwrites the rating set of name
func (s *Store) Put(name string, set models.RatingSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[name] = set.Clone()
}

// Players returns the rated player names in sorted order
func (s *Store) Players() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.players))
	for name := range s.players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of rated players
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// Snapshot returns a deep copy of the full rating map
func (s *Store) Snapshot() map[string]models.RatingSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.RatingSet, len(s.players))
	for name, set := range s.players {
		out[name] = set.Clone()
	}
	return out
}

// Restore replaces the store contents with a previously saved snapshot
func (s *Store) Restore(snapshot map[string]models.RatingSet) {
	players := make(map[string]models.RatingSet, len(snapshot))
	for name, set := range snapshot {
		players[name] = normalize(set)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = players
}

// normalize fills in any surface record missing from an older snapshot
func normalize(set models.RatingSet) models.RatingSet {
	out := set.Clone()
	for _, surface := range models.Surfaces {
		if _, ok := out.Surfaces[surface]; !ok {
			out.Surfaces[surface] = models.NewPlayerRating()
		}
	}
	return out
}
