// Package favorites tracks the user's favorite record ids.
//
// The set lives in memory and is mirrored to the key-value store on
// every mutation as a full-set overwrite. Persistence failures degrade
// to session-only favorites: they are logged, never propagated, and
// the in-memory set stays authoritative.
package favorites

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/abelbrown/dexview/internal/logging"
)

// storageKey is the single key used in the persistent store.
const storageKey = "favorites"

// Persister is the persistence dependency, satisfied by *kv.Store.
type Persister interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Store holds the favorite-id set. Safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	ids       map[int]bool
	persister Persister
}

// New creates a Store, loading any persisted set. An absent or corrupt
// value yields an empty set rather than an error.
func New(p Persister) *Store {
	s := &Store{
		ids:       make(map[int]bool),
		persister: p,
	}
	if p == nil {
		return s
	}

	raw, ok, err := p.Get(storageKey)
	if err != nil {
		logging.Warn("failed to load favorites, starting empty", "error", err)
		return s
	}
	if !ok {
		return s
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		logging.Warn("corrupt favorites value, starting empty", "error", err)
		return s
	}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s
}

// Toggle flips membership for id and returns the new membership. The
// full set is persisted before Toggle returns, so observers notified
// afterwards never see a half-applied state.
func (s *Store) Toggle(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	member := !s.ids[id]
	if member {
		s.ids[id] = true
	} else {
		delete(s.ids, id)
	}
	s.persistLocked()
	return member
}

// IsFavorite reports whether id is in the set.
func (s *Store) IsFavorite(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[id]
}

// Count returns the number of favorites.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the favorite ids in ascending order.
func (s *Store) IDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// persistLocked serializes the set and writes it through the
// persister. Caller must hold s.mu.
func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}

	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	raw, err := json.Marshal(ids)
	if err != nil {
		logging.Error("failed to serialize favorites", "error", err)
		return
	}
	if err := s.persister.Set(storageKey, string(raw)); err != nil {
		logging.Error("failed to persist favorites", "error", err)
	}
}
