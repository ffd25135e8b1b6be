// Package board holds the task-board core: the flat task list as the
// single source of truth for rendering, the column partitioner, the
// drag-and-drop move reconciler and the load/refresh coordinator.
package board

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/BastianThoma/join/internal/metrics"
	"github.com/BastianThoma/join/internal/model"
)

// TaskSource is the slice of the task repository the board needs.
type TaskSource interface {
	List(ctx context.Context) ([]model.Task, error)
	UpdateStatus(ctx context.Context, id model.TaskID, status model.Status) error
}

// ContactSource is the slice of the contact repository the board needs.
type ContactSource interface {
	List(ctx context.Context) ([]model.Contact, error)
}

// Board owns one user's in-memory board state. All exported methods are
// safe for concurrent use.
type Board struct {
	mu       sync.Mutex
	tasks    []model.Task
	contacts []model.Contact

	// pending maps task ids with an in-flight status write to the status
	// being written; outOfSync marks tasks whose optimistic move was
	// rolled back after a failed write.
	pending   map[model.TaskID]model.Status
	outOfSync map[model.TaskID]bool
	loadErr   string

	tasksSrc     TaskSource
	contactsSrc  ContactSource
	writeTimeout time.Duration
	logger       *log.Logger
	rec          *metrics.Recorder

	writes sync.WaitGroup
}

func New(tasks TaskSource, contacts ContactSource, writeTimeout time.Duration, logger *log.Logger, rec *metrics.Recorder) *Board {
	if logger == nil {
		logger = log.Default()
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Board{
		pending:      map[model.TaskID]model.Status{},
		outOfSync:    map[model.TaskID]bool{},
		tasksSrc:     tasks,
		contactsSrc:  contacts,
		writeTimeout: writeTimeout,
		logger:       logger,
		rec:          rec,
	}
}

// State is the renderable board snapshot.
type State struct {
	Columns   Columns         `json:"columns"`
	OutOfSync []model.TaskID  `json:"outOfSync,omitempty"`
	Pending   []model.TaskID  `json:"pending,omitempty"`
	LoadError string          `json:"loadError,omitempty"`
	Contacts  []model.Contact `json:"contacts"`
}

func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := State{
		Columns:  Partition(b.tasks),
		Contacts: append([]model.Contact{}, b.contacts...),
	}
	for id := range b.outOfSync {
		st.OutOfSync = append(st.OutOfSync, id)
	}
	for id := range b.pending {
		st.Pending = append(st.Pending, id)
	}
	st.LoadError = b.loadErr
	return st
}

// Tasks returns a copy of the flat list in its current order.
func (b *Board) Tasks() []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

func (b *Board) Contacts() []model.Contact {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Contact{}, b.contacts...)
}

// ReplaceTask mirrors a committed edit into the flat list entry with the
// same id. Unknown ids append, so a task created while the board was live
// shows up without a full refresh.
func (b *Board) ReplaceTask(t model.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.tasks {
		if b.tasks[i].ID == t.ID {
			b.tasks[i] = t
			return
		}
	}
	b.tasks = append(b.tasks, t)
}

// RemoveTask drops a task from the flat list and every view.
func (b *Board) RemoveTask(id model.TaskID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks = append(b.tasks[:i:i], b.tasks[i+1:]...)
			break
		}
	}
	delete(b.pending, id)
	delete(b.outOfSync, id)
}

// Flush waits for in-flight status writes. Used by tests and shutdown.
func (b *Board) Flush() {
	b.writes.Wait()
}
