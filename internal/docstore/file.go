package docstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

type fileState struct {
	Collections map[string][]Document `json:"collections"`
}

// FileStore persists all collections to a single JSON file under the data
// directory. Every write rewrites the file; the dataset is small enough
// that this stays simple and crash-safe via the usual write-then-rename.
type FileStore struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	st := &FileStore{
		path: filepath.Join(dataDir, "documents.json"),
		s:    fileState{Collections: map[string][]Document{}},
	}
	if err := st.load(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *FileStore) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Collections == nil {
		loaded.Collections = map[string][]Document{}
	}
	s.s = loaded
	return nil
}

func (s *FileStore) saveLocked() error {
	b, err := json.MarshalIndent(s.s, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) List(ctx context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.s.Collections[collection]
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, Document{ID: d.ID, Fields: cloneFields(d.Fields)})
	}
	return out, nil
}

func (s *FileStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.s.Collections[collection] = append(s.s.Collections[collection], Document{
		ID:     id,
		Fields: cloneFields(fields),
	})
	if err := s.saveLocked(); err != nil {
		return "", err
	}
	return id, nil
}

func (s *FileStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.s.Collections[collection]
	for i := range docs {
		if docs[i].ID != id {
			continue
		}
		if docs[i].Fields == nil {
			docs[i].Fields = map[string]any{}
		}
		for k, v := range fields {
			docs[i].Fields[k] = cloneValue(v)
		}
		return s.saveLocked()
	}
	return ErrNotFound
}

func (s *FileStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.s.Collections[collection]
	for i := range docs {
		if docs[i].ID == id {
			s.s.Collections[collection] = append(docs[:i:i], docs[i+1:]...)
			return s.saveLocked()
		}
	}
	return ErrNotFound
}
