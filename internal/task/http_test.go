package task

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BastianThoma/join/internal/docstore"
	"github.com/BastianThoma/join/internal/model"
)

type fakeBoard struct {
	replaced []model.Task
	removed  []model.TaskID
}

func (f *fakeBoard) ReplaceTask(t model.Task)   { f.replaced = append(f.replaced, t) }
func (f *fakeBoard) RemoveTask(id model.TaskID) { f.removed = append(f.removed, id) }

func newHTTPFixture() (*Handler, Repo, *fakeBoard) {
	repo := NewStoreRepo(docstore.NewMemoryStore())
	board := &fakeBoard{}
	h := NewHandler(repo)
	h.SetBoardResolver(func(*http.Request) BoardSync { return board })
	return h, repo, board
}

func TestTasksRoot_CreateRejectsMissingFields(t *testing.T) {
	h, repo, board := newHTTPFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/tasks",
		strings.NewReader(`{"description":"no title, due date or category"}`))
	rec := httptest.NewRecorder()
	h.TasksRoot(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "title")
	assert.Contains(t, body["error"], "dueDate")
	assert.Contains(t, body["error"], "category")

	// The gate fired before any remote write.
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, board.replaced)
}

func TestTasksRoot_CreateAndList(t *testing.T) {
	h, _, board := newHTTPFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{
		"title": "Contact form",
		"dueDate": "2026-08-30",
		"priority": "urgent",
		"category": "User Story",
		"subtasks": ["form", "imprint"]
	}`))
	rec := httptest.NewRecorder()
	h.TasksRoot(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.StatusTodo, created.Status)
	require.Len(t, board.replaced, 1)
	assert.Equal(t, created.ID, board.replaced[0].ID)

	rec = httptest.NewRecorder()
	h.TasksRoot(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestTasksRoot_CreateRejectsInvalidStatus(t *testing.T) {
	h, _, _ := newHTTPFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{
		"title": "x", "dueDate": "2026-01-01", "category": "c", "status": "archived"
	}`))
	rec := httptest.NewRecorder()
	h.TasksRoot(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTasksSub_PatchValidationKeepsRecord(t *testing.T) {
	h, repo, _ := newHTTPFixture()
	ctx := context.Background()

	created, err := repo.Create(ctx, model.Task{Title: "keep me", DueDate: "2026-01-01", Category: "c"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/tasks/"+string(created.ID),
		strings.NewReader(`{"title":"  "}`))
	rec := httptest.NewRecorder()
	h.TasksSub(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Title)
}

func TestTasksSub_PatchUpdatesFields(t *testing.T) {
	h, repo, board := newHTTPFixture()
	ctx := context.Background()

	created, err := repo.Create(ctx, model.Task{Title: "old", DueDate: "2026-01-01", Category: "c"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/tasks/"+string(created.ID),
		strings.NewReader(`{"title":"new title","priority":"low"}`))
	rec := httptest.NewRecorder()
	h.TasksSub(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var saved model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "new title", saved.Title)
	assert.Equal(t, model.PriorityLow, saved.Priority)
	assert.Len(t, board.replaced, 1)
}

func TestTasksSub_DeleteConfirmationGate(t *testing.T) {
	h, repo, board := newHTTPFixture()
	ctx := context.Background()

	created, err := repo.Create(ctx, model.Task{Title: "doomed", DueDate: "2026-01-01", Category: "c"})
	require.NoError(t, err)

	// No confirm parameter: rejected, nothing deleted.
	rec := httptest.NewRecorder()
	h.TasksSub(rec, httptest.NewRequest(http.MethodDelete, "/api/tasks/"+string(created.ID), nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	_, err = repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, board.removed)

	rec = httptest.NewRecorder()
	h.TasksSub(rec, httptest.NewRequest(http.MethodDelete, "/api/tasks/"+string(created.ID)+"?confirm=true", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []model.TaskID{created.ID}, board.removed)
}

func TestTasksSub_ToggleSubtask(t *testing.T) {
	h, repo, _ := newHTTPFixture()
	ctx := context.Background()

	created, err := repo.Create(ctx, model.Task{
		Title: "with subtasks", DueDate: "2026-01-01", Category: "c",
		Subtasks: []string{"one", "two"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+string(created.ID)+"/subtask",
		strings.NewReader(`{"text":"one"}`))
	rec := httptest.NewRecorder()
	h.TasksSub(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, got.CompletedSubtasks)
}

func TestTasksSub_UnknownID(t *testing.T) {
	h, _, _ := newHTTPFixture()
	rec := httptest.NewRecorder()
	h.TasksSub(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
