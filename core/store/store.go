package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"delivery-admin/core/apperr"

	"go.uber.org/zap"
)

// Entity is a cached resource identified by a store-assigned id.
// A zero key means the entity has not been persisted yet.
type Entity interface {
	Key() int64
}

// Lister fetches a full collection from the remote store.
type Lister[T Entity] interface {
	List(ctx context.Context) ([]T, error)
}

// Store caches one homogeneous collection.
type Store[T Entity] struct {
	name   string
	lister Lister[T]
	logger *zap.Logger

	// issued numbers loads in start order; generation is the last one swapped in.
	issued     atomic.Uint64
	mu         sync.RWMutex
	generation uint64
	items      []T
	index      map[int64]int
	loaded     bool
	loadedAt   time.Time
}

// New creates an empty store backed by lister.
func New[T Entity](name string, lister Lister[T], logger *zap.Logger) *Store[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store[T]{
		name:   name,
		lister: lister,
		logger: logger.With(zap.String("store", name)),
		index:  make(map[int64]int),
	}
}

// Name returns the collection name.
func (s *Store[T]) Name() string {
	return s.name
}

// Load fetches the collection and replaces the cache in one step.
// On failure the previous cache is kept untouched. A load that finishes after
// a later-started one has already been applied is dropped and returns the
// current collection.
func (s *Store[T]) Load(ctx context.Context) ([]T, error) {
	gen := s.issued.Add(1)

	items, err := s.lister.List(ctx)
	if err != nil {
		s.logger.Warn("Load failed, keeping previous collection", zap.Error(err))
		return nil, err
	}

	index, err := buildIndex(items)
	if err != nil {
		s.logger.Warn("Rejected malformed collection", zap.Error(err))
		return nil, fmt.Errorf("load %s: %w", s.name, err)
	}

	fresh := make([]T, len(items))
	copy(fresh, items)

	s.mu.Lock()
	if gen < s.generation {
		s.mu.Unlock()
		s.logger.Debug("Dropped stale collection", zap.Uint64("generation", gen))
		return s.Snapshot(), nil
	}
	s.generation = gen
	s.items = fresh
	s.index = index
	s.loaded = true
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Debug("Collection loaded", zap.Int("count", len(fresh)))

	return s.Snapshot(), nil
}

// Upsert inserts an unknown entity at the end or replaces a known one in place.
func (s *Store[T]) Upsert(entity T) error {
	key := entity.Key()
	if key == 0 {
		return apperr.Internal("%s: cannot cache an entity without id", s.name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if pos, ok := s.index[key]; ok {
		s.items[pos] = entity
		return nil
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, entity)
	return nil
}

// Remove deletes the entity with the given id. Unknown ids are ignored.
func (s *Store[T]) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return
	}

	items := make([]T, 0, len(s.items)-1)
	items = append(items, s.items[:pos]...)
	items = append(items, s.items[pos+1:]...)
	s.items = items

	delete(s.index, id)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].Key()] = i
	}
}

// Snapshot returns a copy of the cached collection in order.
func (s *Store[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the cached entity with the given id.
func (s *Store[T]) Get(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	pos, ok := s.index[id]
	if !ok {
		return zero, false
	}
	return s.items[pos], true
}

// Len returns the number of cached entities.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Loaded reports whether at least one load succeeded.
func (s *Store[T]) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LoadedAt returns the time of the last successful load.
func (s *Store[T]) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// buildIndex rejects payloads with missing or duplicate ids.
func buildIndex[T Entity](items []T) (map[int64]int, error) {
	index := make(map[int64]int, len(items))
	for i, item := range items {
		key := item.Key()
		if key == 0 {
			return nil, apperr.Decode(fmt.Errorf("entry %d has no id", i))
		}
		if _, dup := index[key]; dup {
			return nil, apperr.Decode(fmt.Errorf("duplicate id %d", key))
		}
		index[key] = i
	}
	return index, nil
}
