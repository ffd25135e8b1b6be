package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BastianThoma/join/internal/docstore"
	"github.com/BastianThoma/join/internal/model"
)

// spyRepo counts remote calls so tests can prove a path stayed local.
type spyRepo struct {
	Repo
	updates         int
	completedWrites int
	softDeletes     int
	statusWrites    int
}

func (s *spyRepo) Update(ctx context.Context, id model.TaskID, p Patch) (model.Task, error) {
	s.updates++
	return s.Repo.Update(ctx, id, p)
}

func (s *spyRepo) UpdateCompleted(ctx context.Context, id model.TaskID, completed []string) error {
	s.completedWrites++
	return s.Repo.UpdateCompleted(ctx, id, completed)
}

func (s *spyRepo) UpdateStatus(ctx context.Context, id model.TaskID, status model.Status) error {
	s.statusWrites++
	return s.Repo.UpdateStatus(ctx, id, status)
}

func (s *spyRepo) SoftDelete(ctx context.Context, id model.TaskID) error {
	s.softDeletes++
	return s.Repo.SoftDelete(ctx, id)
}

func newSessionFixture(t *testing.T) (*spyRepo, model.Task) {
	t.Helper()
	ctx := context.Background()
	repo := &spyRepo{Repo: NewStoreRepo(docstore.NewMemoryStore())}
	created, err := repo.Create(ctx, model.Task{
		Title:      "Kochwelt page",
		DueDate:    "2026-09-10",
		Priority:   model.PriorityMedium,
		AssignedTo: []model.ContactID{"c1"},
		Category:   "User Story",
		Subtasks:   []string{"layout", "recommender"},
		Status:     model.StatusInProgress,
	})
	require.NoError(t, err)
	return repo, created
}

func TestSession_EditBuffersAreIsolated(t *testing.T) {
	repo, selected := newSessionFixture(t)
	s := NewSession(repo, selected, nil)

	require.NoError(t, s.Edit())
	assert.ErrorIs(t, s.Edit(), ErrAlreadyEditing)

	s.Buffer().Title = "changed in buffer"
	require.NoError(t, s.AddSubtask("  write tests  "))

	// The committed record is untouched while editing.
	assert.Equal(t, "Kochwelt page", s.Selected().Title)
	assert.Len(t, s.Selected().Subtasks, 2)
	assert.Equal(t, "write tests", s.Buffer().Subtasks[2])
}

func TestSession_CancelDiscardsWithoutRemoteCall(t *testing.T) {
	repo, selected := newSessionFixture(t)
	s := NewSession(repo, selected, nil)

	require.NoError(t, s.Edit())
	s.Buffer().Title = "abandoned"
	s.Cancel()

	assert.False(t, s.Editing())
	assert.Equal(t, "Kochwelt page", s.Selected().Title)
	assert.Zero(t, repo.updates)

	// A fresh edit starts from the committed record, not the old buffer.
	require.NoError(t, s.Edit())
	assert.Equal(t, "Kochwelt page", s.Buffer().Title)
}

func TestSession_SaveCommitsEditableFieldsOnly(t *testing.T) {
	repo, selected := newSessionFixture(t)
	s := NewSession(repo, selected, nil)

	require.NoError(t, s.Edit())
	s.Buffer().Title = "Kochwelt v2"
	s.Buffer().Priority = model.PriorityUrgent
	// Mutating non-editable fields in the buffer must not leak into the
	// committed record.
	s.Buffer().Status = model.StatusDone

	saved, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.updates)
	assert.False(t, s.Editing())

	assert.Equal(t, "Kochwelt v2", saved.Title)
	assert.Equal(t, model.PriorityUrgent, saved.Priority)
	assert.Equal(t, model.StatusInProgress, saved.Status)
	assert.Equal(t, selected.CreatedAt, saved.CreatedAt)

	// The store kept its own status too.
	got, err := repo.Get(context.Background(), selected.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)
}

func TestSession_SaveValidationFailureStaysLocal(t *testing.T) {
	repo, selected := newSessionFixture(t)
	s := NewSession(repo, selected, nil)

	require.NoError(t, s.Edit())
	s.Buffer().Title = "   "

	_, err := s.Save(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"title"}, ve.Fields)

	// Still editing, nothing written remotely.
	assert.True(t, s.Editing())
	assert.Zero(t, repo.updates)
}

func TestSession_RemoveSubtaskDropsStaleCompletion(t *testing.T) {
	repo, selected := newSessionFixture(t)
	selected.CompletedSubtasks = []string{"layout"}
	s := NewSession(repo, selected, nil)

	require.NoError(t, s.Edit())
	require.NoError(t, s.RemoveSubtask(0))

	assert.Equal(t, []string{"recommender"}, s.Buffer().Subtasks)
	assert.Empty(t, s.Buffer().CompletedSubtasks)
}

func TestSession_ToggleAssignment(t *testing.T) {
	repo, selected := newSessionFixture(t)
	s := NewSession(repo, selected, nil)

	require.NoError(t, s.Edit())
	require.NoError(t, s.ToggleAssignment("c2"))
	assert.Equal(t, []model.ContactID{"c1", "c2"}, s.Buffer().AssignedTo)

	require.NoError(t, s.ToggleAssignment("c1"))
	assert.Equal(t, []model.ContactID{"c2"}, s.Buffer().AssignedTo)
}

func TestSession_FilterContacts(t *testing.T) {
	repo, selected := newSessionFixture(t)
	contacts := []model.Contact{
		{ID: "c1", Name: "Anton Mayer"},
		{ID: "c2", Name: "Benedikt Ziegler"},
		{ID: "c3", Name: "Anja Schulz"},
	}
	s := NewSession(repo, selected, contacts)
	require.NoError(t, s.Edit())

	got := s.FilterContacts("an")
	require.Len(t, got, 2)
	assert.Equal(t, "Anton Mayer", got[0].Name)
	assert.Equal(t, "Anja Schulz", got[1].Name)

	got = s.FilterContacts("")
	assert.Len(t, got, 3)
}

func TestSession_ToggleSubtaskDonePersistsNarrowWrite(t *testing.T) {
	repo, selected := newSessionFixture(t)
	s := NewSession(repo, selected, nil)
	ctx := context.Background()

	updated, err := s.ToggleSubtaskDone(ctx, "layout")
	require.NoError(t, err)
	assert.Equal(t, []string{"layout"}, updated.CompletedSubtasks)
	assert.Equal(t, 1, repo.completedWrites)
	assert.Zero(t, repo.updates)

	// Toggling again unchecks; value-keyed membership flips.
	updated, err = s.ToggleSubtaskDone(ctx, "layout")
	require.NoError(t, err)
	assert.Empty(t, updated.CompletedSubtasks)

	got, err := repo.Get(ctx, selected.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CompletedSubtasks)
}

func TestSession_DeleteRequiresConfirmation(t *testing.T) {
	repo, selected := newSessionFixture(t)
	s := NewSession(repo, selected, nil)
	ctx := context.Background()

	err := s.Delete(ctx, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Zero(t, repo.softDeletes)

	require.NoError(t, s.Delete(ctx, true))
	assert.Equal(t, 1, repo.softDeletes)

	_, err = repo.Get(ctx, selected.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
