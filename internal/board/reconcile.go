package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/BastianThoma/join/internal/model"
)

var (
	ErrUnknownContainer = errors.New("unknown drop container")
	ErrTaskNotOnBoard   = errors.New("task not on board")
	ErrStaleMove        = errors.New("stale move event")
)

// MoveEvent is a completed drag gesture: source and destination container
// ids plus positions within their column sequences.
type MoveEvent struct {
	From      string       `json:"from"`
	To        string       `json:"to"`
	FromIndex int          `json:"fromIndex"`
	ToIndex   int          `json:"toIndex"`
	TaskID    model.TaskID `json:"taskId"`
}

const (
	MoveReorder    = "reorder"
	MoveTransition = "transition"
)

// MoveResult reports what a move did. Pending is true while the status
// write for a cross-column move is still in flight.
type MoveResult struct {
	Kind    string       `json:"kind"`
	Status  model.Status `json:"status"`
	Pending bool         `json:"pending"`
}

// ApplyMove reconciles a drag gesture. The local mutation is synchronous;
// for cross-column moves the status write happens asynchronously and a
// failure rolls the status back and marks the task out of sync.
//
// The container lookup and the splice are one atomic decision: an event
// with an unknown source or destination container is rejected before any
// list mutation.
func (b *Board) ApplyMove(ev MoveEvent) (MoveResult, error) {
	from, ok := StatusForContainer(ev.From)
	if !ok {
		return MoveResult{}, fmt.Errorf("%w: %q", ErrUnknownContainer, ev.From)
	}
	to, ok := StatusForContainer(ev.To)
	if !ok {
		return MoveResult{}, fmt.Errorf("%w: %q", ErrUnknownContainer, ev.To)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	flatIdx := -1
	for i := range b.tasks {
		if b.tasks[i].ID == ev.TaskID {
			flatIdx = i
			break
		}
	}
	if flatIdx == -1 {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrTaskNotOnBoard, ev.TaskID)
	}
	if b.tasks[flatIdx].Status != from {
		// The gesture was raised against an older partition, e.g. a rapid
		// double-drop. Rejecting keeps the task in exactly one column.
		return MoveResult{}, fmt.Errorf("%w: task %s is not in %q", ErrStaleMove, ev.TaskID, ev.From)
	}

	prev := b.tasks[flatIdx].Status
	moved := b.tasks[flatIdx]
	rest := append(b.tasks[:flatIdx:flatIdx], b.tasks[flatIdx+1:]...)

	moved.Status = to
	b.tasks = spliceIntoColumn(rest, moved, to, ev.ToIndex)

	if from == to {
		// Display-order operation only; nothing is persisted.
		b.rec.ObserveMove(MoveReorder)
		return MoveResult{Kind: MoveReorder, Status: to}, nil
	}

	b.pending[moved.ID] = to
	delete(b.outOfSync, moved.ID)
	b.rec.ObserveMove(MoveTransition)

	b.writes.Add(1)
	go b.persistStatus(moved.ID, prev, to)

	return MoveResult{Kind: MoveTransition, Status: to, Pending: true}, nil
}

// spliceIntoColumn inserts the task into the flat list at the position
// that makes it appear at column index idx of its status view, preserving
// the relative order of everything else.
func spliceIntoColumn(tasks []model.Task, t model.Task, status model.Status, idx int) []model.Task {
	if idx < 0 {
		idx = 0
	}
	insertAt := len(tasks)
	seen := 0
	for i := range tasks {
		if tasks[i].Deleted || tasks[i].Status != status {
			continue
		}
		if seen == idx {
			insertAt = i
			break
		}
		seen++
	}
	if seen < idx {
		// Past the end of the column: place after its last member (or at
		// the very end for an empty column).
		insertAt = len(tasks)
		for i := len(tasks) - 1; i >= 0; i-- {
			if !tasks[i].Deleted && tasks[i].Status == status {
				insertAt = i + 1
				break
			}
		}
	}
	out := make([]model.Task, 0, len(tasks)+1)
	out = append(out, tasks[:insertAt]...)
	out = append(out, t)
	out = append(out, tasks[insertAt:]...)
	return out
}

// persistStatus is the asynchronous half of a cross-column move: a
// status-only remote update under the write timeout, with rollback and
// out-of-sync marking on failure.
func (b *Board) persistStatus(id model.TaskID, prev, next model.Status) {
	defer b.writes.Done()

	ctx, cancel := context.WithTimeout(context.Background(), b.writeTimeout)
	defer cancel()

	err := b.tasksSrc.UpdateStatus(ctx, id, next)

	b.mu.Lock()
	defer b.mu.Unlock()

	// A later move may have superseded this write.
	if b.pending[id] == next {
		delete(b.pending, id)
	}
	if err == nil {
		return
	}

	b.logger.Printf("[board] status write failed for task %s (%s -> %s): %v", id, prev, next, err)
	b.rec.ObserveWriteFailure("task.status")

	for i := range b.tasks {
		if b.tasks[i].ID != id {
			continue
		}
		if b.tasks[i].Status == next {
			b.tasks[i].Status = prev
			b.rec.ObserveRollback()
		}
		b.outOfSync[id] = true
		return
	}
}
