package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/hmcleod/gamelobby/internal/store"
)

// Store is a process-local implementation of the store interface.
// Each collection is an insertion-ordered slice of documents; matching
// is a full linear scan, which is fine for the expected volumes.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]store.Document
}

// New creates a new in-memory store instance
func New() *Store {
	return &Store{
		collections: make(map[string][]store.Document),
	}
}

// Ensure Store implements the interface
var _ store.Store = (*Store)(nil)

// normalize deep-copies a document through a JSON round trip. This
// isolates stored state from caller mutation and gives the memory
// backend the same value types (float64 numbers) as the Redis backend.
func normalize(doc store.Document) (store.Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out store.Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Find(ctx context.Context, collection string, query store.Query, opts store.FindOptions) ([]store.Document, error) {
	// Matches are cloned before the read lock is released; a concurrent
	// Update or Transform mutates the stored maps in place, so no live
	// reference may escape the lock.
	s.mu.RLock()
	results := []store.Document{}
	for _, doc := range s.collections[collection] {
		if !query.Matches(doc) {
			continue
		}
		clone, err := normalize(doc)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		results = append(results, clone)
	}
	s.mu.RUnlock()

	return store.ApplyOptions(results, opts), nil
}

func (s *Store) FindOne(ctx context.Context, collection string, query store.Query) (store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.collections[collection] {
		if query.Matches(doc) {
			return normalize(doc)
		}
	}
	return nil, store.ErrNoDocument
}

func (s *Store) Insert(ctx context.Context, collection string, doc store.Document) (store.Document, error) {
	stored, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	if _, ok := stored[store.PrimaryKey]; !ok {
		stored[store.PrimaryKey] = uuid.NewString()
	}

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], stored)
	s.mu.Unlock()

	return normalize(stored)
}

func (s *Store) Update(ctx context.Context, collection string, query store.Query, fields store.Document) (int, error) {
	merged, err := normalize(fields)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, doc := range s.collections[collection] {
		if !query.Matches(doc) {
			continue
		}
		for key, value := range merged {
			doc[key] = value
		}
		count++
	}
	return count, nil
}

func (s *Store) Delete(ctx context.Context, collection string, query store.Query) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	kept := docs[:0]
	count := 0
	for _, doc := range docs {
		if query.Matches(doc) {
			count++
			continue
		}
		kept = append(kept, doc)
	}
	s.collections[collection] = kept
	return count, nil
}

func (s *Store) Transform(ctx context.Context, collection string, query store.Query, fn store.TransformFunc) (store.Document, error) {
	// The write lock is held across fn, so the read-modify-write is
	// atomic with respect to every other operation.
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, doc := range s.collections[collection] {
		if !query.Matches(doc) {
			continue
		}

		work, err := normalize(doc)
		if err != nil {
			return nil, err
		}
		updated, err := fn(work)
		if err != nil {
			return nil, err
		}

		stored, err := normalize(updated)
		if err != nil {
			return nil, err
		}
		// The primary key survives the transform
		stored[store.PrimaryKey] = doc[store.PrimaryKey]

		s.collections[collection][i] = stored
		return normalize(stored)
	}
	return nil, store.ErrNoDocument
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = make(map[string][]store.Document)
	return nil
}

func (s *Store) Close() error {
	return nil
}
