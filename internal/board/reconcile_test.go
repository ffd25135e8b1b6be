package board

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BastianThoma/join/internal/model"
)

// fakeTaskSource records status writes and can be told to fail them.
type fakeTaskSource struct {
	mu       sync.Mutex
	tasks    []model.Task
	writes   []statusWrite
	writeErr error
	listErr  error
}

type statusWrite struct {
	ID     model.TaskID
	Status model.Status
}

func (f *fakeTaskSource) List(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeTaskSource) UpdateStatus(ctx context.Context, id model.TaskID, status model.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, statusWrite{ID: id, Status: status})
	return nil
}

func (f *fakeTaskSource) recordedWrites() []statusWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]statusWrite{}, f.writes...)
}

type fakeContactSource struct {
	contacts []model.Contact
	err      error
}

func (f *fakeContactSource) List(ctx context.Context) ([]model.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Contact{}, f.contacts...), nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newBoardFixture(tasks []model.Task) (*Board, *fakeTaskSource) {
	src := &fakeTaskSource{tasks: tasks}
	b := New(src, &fakeContactSource{}, time.Second, quietLogger(), nil)
	b.tasks = append([]model.Task{}, tasks...)
	return b, src
}

func TestApplyMove_CrossColumnTransition(t *testing.T) {
	b, src := newBoardFixture([]model.Task{
		{ID: "t1", Status: model.StatusTodo},
		{ID: "t2", Status: model.StatusInProgress},
		{ID: "t3", Status: model.StatusDone},
	})

	// Drop t2 at the top of the done column.
	res, err := b.ApplyMove(MoveEvent{
		From:      "inprogress-list",
		To:        "done-list",
		FromIndex: 0,
		ToIndex:   0,
		TaskID:    "t2",
	})
	require.NoError(t, err)
	assert.Equal(t, MoveTransition, res.Kind)
	assert.Equal(t, model.StatusDone, res.Status)
	assert.True(t, res.Pending)

	cols := Partition(b.Tasks())
	assert.Empty(t, cols.InProgress)
	require.Len(t, cols.Done, 2)
	assert.Equal(t, model.TaskID("t2"), cols.Done[0].ID)
	assert.Equal(t, model.TaskID("t3"), cols.Done[1].ID)

	b.Flush()
	writes := src.recordedWrites()
	require.Len(t, writes, 1)
	assert.Equal(t, statusWrite{ID: "t2", Status: model.StatusDone}, writes[0])

	// Write landed: no longer pending, not out of sync.
	st := b.State()
	assert.Empty(t, st.Pending)
	assert.Empty(t, st.OutOfSync)
}

func TestApplyMove_SameColumnReorderSkipsRemoteWrite(t *testing.T) {
	b, src := newBoardFixture([]model.Task{
		{ID: "a", Status: model.StatusTodo},
		{ID: "b", Status: model.StatusTodo},
		{ID: "c", Status: model.StatusTodo},
	})

	res, err := b.ApplyMove(MoveEvent{
		From:      "todo-list",
		To:        "todo-list",
		FromIndex: 0,
		ToIndex:   2,
		TaskID:    "a",
	})
	require.NoError(t, err)
	assert.Equal(t, MoveReorder, res.Kind)
	assert.False(t, res.Pending)

	cols := Partition(b.Tasks())
	require.Len(t, cols.Todo, 3)
	assert.Equal(t, model.TaskID("b"), cols.Todo[0].ID)
	assert.Equal(t, model.TaskID("c"), cols.Todo[1].ID)
	assert.Equal(t, model.TaskID("a"), cols.Todo[2].ID)

	b.Flush()
	assert.Empty(t, src.recordedWrites())
}

func TestApplyMove_UnknownContainerRejectsBeforeMutation(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Status: model.StatusTodo},
		{ID: "b", Status: model.StatusInProgress},
	}
	b, src := newBoardFixture(tasks)

	// Known source, unknown destination: the whole event is rejected and
	// the list is untouched.
	_, err := b.ApplyMove(MoveEvent{From: "todo-list", To: "trash-list", TaskID: "a"})
	assert.ErrorIs(t, err, ErrUnknownContainer)
	assert.Equal(t, tasks, b.Tasks())

	_, err = b.ApplyMove(MoveEvent{From: "nope", To: "done-list", TaskID: "a"})
	assert.ErrorIs(t, err, ErrUnknownContainer)
	assert.Equal(t, tasks, b.Tasks())

	b.Flush()
	assert.Empty(t, src.recordedWrites())
}

func TestApplyMove_UnknownTask(t *testing.T) {
	b, _ := newBoardFixture([]model.Task{{ID: "a", Status: model.StatusTodo}})
	_, err := b.ApplyMove(MoveEvent{From: "todo-list", To: "done-list", TaskID: "ghost"})
	assert.ErrorIs(t, err, ErrTaskNotOnBoard)
}

func TestApplyMove_StaleEventRejected(t *testing.T) {
	b, src := newBoardFixture([]model.Task{{ID: "a", Status: model.StatusDone}})

	// The gesture claims the task is still in todo; a previous drop already
	// moved it. Rejecting keeps it in exactly one column.
	_, err := b.ApplyMove(MoveEvent{From: "todo-list", To: "inprogress-list", TaskID: "a"})
	assert.ErrorIs(t, err, ErrStaleMove)

	cols := Partition(b.Tasks())
	assert.Len(t, cols.Done, 1)
	b.Flush()
	assert.Empty(t, src.recordedWrites())
}

func TestApplyMove_FailedWriteRollsBackAndMarksOutOfSync(t *testing.T) {
	b, src := newBoardFixture([]model.Task{
		{ID: "t1", Status: model.StatusTodo},
		{ID: "t2", Status: model.StatusTodo},
	})
	src.writeErr = errors.New("store unavailable")

	res, err := b.ApplyMove(MoveEvent{
		From:      "todo-list",
		To:        "done-list",
		FromIndex: 0,
		ToIndex:   0,
		TaskID:    "t1",
	})
	require.NoError(t, err)
	assert.True(t, res.Pending)

	b.Flush()

	// The optimistic status reverted; the task is flagged for refresh.
	tasks := b.Tasks()
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		if task.ID == "t1" {
			assert.Equal(t, model.StatusTodo, task.Status)
		}
	}
	st := b.State()
	assert.Equal(t, []model.TaskID{"t1"}, st.OutOfSync)
	assert.Empty(t, st.Pending)
}

func TestApplyMove_ToIndexPastColumnEndAppends(t *testing.T) {
	b, _ := newBoardFixture([]model.Task{
		{ID: "a", Status: model.StatusDone},
		{ID: "b", Status: model.StatusTodo},
	})

	_, err := b.ApplyMove(MoveEvent{
		From:      "todo-list",
		To:        "done-list",
		FromIndex: 0,
		ToIndex:   99,
		TaskID:    "b",
	})
	require.NoError(t, err)

	cols := Partition(b.Tasks())
	require.Len(t, cols.Done, 2)
	assert.Equal(t, model.TaskID("a"), cols.Done[0].ID)
	assert.Equal(t, model.TaskID("b"), cols.Done[1].ID)
	b.Flush()
}

func TestApplyMove_IntoEmptyColumn(t *testing.T) {
	b, _ := newBoardFixture([]model.Task{{ID: "a", Status: model.StatusTodo}})

	_, err := b.ApplyMove(MoveEvent{
		From:   "todo-list",
		To:     "awaitfeedback-list",
		TaskID: "a",
	})
	require.NoError(t, err)

	cols := Partition(b.Tasks())
	assert.Empty(t, cols.Todo)
	require.Len(t, cols.AwaitFeedback, 1)
	b.Flush()
}
