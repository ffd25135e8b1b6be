package docstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps collections in process memory. Insertion order is
// preserved per collection.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[string][]Document{}}
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collections[collection]
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, Document{ID: d.ID, Fields: cloneFields(d.Fields)})
	}
	return out, nil
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.collections[collection] = append(s.collections[collection], Document{
		ID:     id,
		Fields: cloneFields(fields),
	})
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i := range docs {
		if docs[i].ID != id {
			continue
		}
		for k, v := range fields {
			docs[i].Fields[k] = cloneValue(v)
		}
		return nil
	}
	return ErrNotFound
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i := range docs {
		if docs[i].ID == id {
			s.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
