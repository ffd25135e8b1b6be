package model

import (
	"slices"
	"time"
)

type TaskID string

// Status is the board column a task lives in. Every non-deleted task has
// exactly one status.
type Status string

const (
	StatusTodo          Status = "todo"
	StatusInProgress    Status = "inprogress"
	StatusAwaitFeedback Status = "awaitfeedback"
	StatusDone          Status = "done"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusAwaitFeedback, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityUrgent, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Task struct {
	ID          TaskID      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DueDate     string      `json:"dueDate"` // YYYY-MM-DD
	Priority    Priority    `json:"priority"`
	AssignedTo  []ContactID `json:"assignedTo,omitempty"`
	Category    string      `json:"category"`
	Subtasks    []string    `json:"subtasks,omitempty"`

	// CompletedSubtasks marks completion by subtask text value, matching
	// the remote data shape.
	CompletedSubtasks []string `json:"completedSubtasks,omitempty"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Deleted   bool      `json:"deleted"`
}

// Clone returns an independent deep copy. Edit buffers rely on this: no
// nested slice is shared with the receiver.
func (t Task) Clone() Task {
	c := t
	c.AssignedTo = slices.Clone(t.AssignedTo)
	c.Subtasks = slices.Clone(t.Subtasks)
	c.CompletedSubtasks = slices.Clone(t.CompletedSubtasks)
	return c
}

func (t *Task) SubtaskDone(text string) bool {
	return slices.Contains(t.CompletedSubtasks, text)
}

// ToggleSubtask flips value-keyed completion membership and returns the
// resulting set.
func (t *Task) ToggleSubtask(text string) []string {
	if t.SubtaskDone(text) {
		out := make([]string, 0, len(t.CompletedSubtasks))
		for _, s := range t.CompletedSubtasks {
			if s != text {
				out = append(out, s)
			}
		}
		t.CompletedSubtasks = out
	} else {
		t.CompletedSubtasks = append(t.CompletedSubtasks, text)
	}
	return t.CompletedSubtasks
}

// NormalizeCompleted drops completion entries whose text no longer matches
// any subtask, so a renamed subtask cannot resurrect a stale flag.
func (t *Task) NormalizeCompleted() {
	if len(t.CompletedSubtasks) == 0 {
		return
	}
	out := make([]string, 0, len(t.CompletedSubtasks))
	for _, s := range t.CompletedSubtasks {
		if slices.Contains(t.Subtasks, s) {
			out = append(out, s)
		}
	}
	t.CompletedSubtasks = out
}

func (t *Task) AssignedToContact(id ContactID) bool {
	return slices.Contains(t.AssignedTo, id)
}
