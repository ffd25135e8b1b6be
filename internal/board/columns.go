package board

import (
	"github.com/BastianThoma/join/internal/model"
)

// Columns are the four status-partitioned views of the flat task list.
// Each non-deleted task appears in exactly one column, in flat-list order.
type Columns struct {
	Todo          []model.Task `json:"todo"`
	InProgress    []model.Task `json:"inprogress"`
	AwaitFeedback []model.Task `json:"awaitfeedback"`
	Done          []model.Task `json:"done"`
}

// Partition derives the four column views. It never mutates its input.
func Partition(tasks []model.Task) Columns {
	c := Columns{
		Todo:          []model.Task{},
		InProgress:    []model.Task{},
		AwaitFeedback: []model.Task{},
		Done:          []model.Task{},
	}
	for _, t := range tasks {
		if t.Deleted {
			continue
		}
		switch t.Status {
		case model.StatusInProgress:
			c.InProgress = append(c.InProgress, t)
		case model.StatusAwaitFeedback:
			c.AwaitFeedback = append(c.AwaitFeedback, t)
		case model.StatusDone:
			c.Done = append(c.Done, t)
		default:
			c.Todo = append(c.Todo, t)
		}
	}
	return c
}

// Column returns the view for one status.
func (c Columns) Column(s model.Status) []model.Task {
	switch s {
	case model.StatusInProgress:
		return c.InProgress
	case model.StatusAwaitFeedback:
		return c.AwaitFeedback
	case model.StatusDone:
		return c.Done
	default:
		return c.Todo
	}
}

// containerStatus is the fixed lookup from drop container ids to statuses.
// Both the DOM-style "-list" ids and bare status names resolve.
var containerStatus = map[string]model.Status{
	"todo-list":          model.StatusTodo,
	"inprogress-list":    model.StatusInProgress,
	"awaitfeedback-list": model.StatusAwaitFeedback,
	"done-list":          model.StatusDone,
	"todo":               model.StatusTodo,
	"inprogress":         model.StatusInProgress,
	"awaitfeedback":      model.StatusAwaitFeedback,
	"done":               model.StatusDone,
}

// StatusForContainer resolves a drop container id to its column status.
func StatusForContainer(id string) (model.Status, bool) {
	s, ok := containerStatus[id]
	return s, ok
}
