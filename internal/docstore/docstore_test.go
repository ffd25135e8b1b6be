package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_InsertListOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id1, err := s.Insert(ctx, "tasks", map[string]any{"title": "first"})
	require.NoError(t, err)
	id2, err := s.Insert(ctx, "tasks", map[string]any{"title": "second"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	docs, err := s.List(ctx, "tasks")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, id1, docs[0].ID)
	assert.Equal(t, "first", docs[0].Fields["title"])
	assert.Equal(t, id2, docs[1].ID)
}

func TestMemoryStore_UpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Insert(ctx, "tasks", map[string]any{"title": "laundry", "status": "todo"})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, "tasks", id, map[string]any{"status": "done"}))

	docs, err := s.List(ctx, "tasks")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "laundry", docs[0].Fields["title"])
	assert.Equal(t, "done", docs[0].Fields["status"])
}

func TestMemoryStore_UpdateUnknownID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.Update(ctx, "tasks", "nope", map[string]any{"status": "done"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Insert(ctx, "tasks", map[string]any{"subtasks": []any{"a", "b"}})
	require.NoError(t, err)

	docs, err := s.List(ctx, "tasks")
	require.NoError(t, err)
	docs[0].Fields["subtasks"].([]any)[0] = "mutated"

	again, err := s.List(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].Fields["subtasks"].([]any)[0])
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Insert(ctx, "contacts", map[string]any{"name": "Anton"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "contacts", id))

	docs, err := s.List(ctx, "contacts")
	require.NoError(t, err)
	assert.Empty(t, docs)

	assert.ErrorIs(t, s.Delete(ctx, "contacts", id), ErrNotFound)
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	id, err := s.Insert(ctx, "tasks", map[string]any{"title": "persisted", "subtasks": []any{"x"}})
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, "tasks", id, map[string]any{"status": "inprogress"}))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	docs, err := reopened.List(ctx, "tasks")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)
	assert.Equal(t, "persisted", docs[0].Fields["title"])
	assert.Equal(t, "inprogress", docs[0].Fields["status"])
}

func TestFileStore_CollectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Insert(ctx, "users/u1/tasks", map[string]any{"title": "mine"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "users/u2/tasks", map[string]any{"title": "theirs"})
	require.NoError(t, err)

	mine, err := s.List(ctx, "users/u1/tasks")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Fields["title"])
}

func TestSQLiteStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(t.TempDir() + "/join.db")
	require.NoError(t, err)
	defer s.Close()

	id1, err := s.Insert(ctx, "tasks", map[string]any{"title": "one"})
	require.NoError(t, err)
	id2, err := s.Insert(ctx, "tasks", map[string]any{"title": "two"})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, "tasks", id1, map[string]any{"status": "done"}))

	docs, err := s.List(ctx, "tasks")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, id1, docs[0].ID)
	assert.Equal(t, "done", docs[0].Fields["status"])
	assert.Equal(t, "one", docs[0].Fields["title"])

	require.NoError(t, s.Delete(ctx, "tasks", id2))
	docs, err = s.List(ctx, "tasks")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	assert.ErrorIs(t, s.Update(ctx, "tasks", id2, map[string]any{"x": 1}), ErrNotFound)
}
