package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BastianThoma/join/internal/model"
)

func TestSummarize_Counts(t *testing.T) {
	s := Summarize([]model.Task{
		{ID: "t1", Status: model.StatusTodo, Priority: model.PriorityUrgent, DueDate: "2026-09-15"},
		{ID: "t2", Status: model.StatusInProgress, Priority: model.PriorityMedium},
		{ID: "t3", Status: model.StatusAwaitFeedback, Priority: model.PriorityUrgent, DueDate: "2026-09-01"},
		{ID: "t4", Status: model.StatusDone, Priority: model.PriorityUrgent, DueDate: "2026-08-01"},
		{ID: "t5", Status: model.StatusTodo, Priority: model.PriorityLow, Deleted: true},
	})

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Todo)
	assert.Equal(t, 1, s.InProgress)
	assert.Equal(t, 1, s.AwaitFeedback)
	assert.Equal(t, 1, s.Done)
	assert.Equal(t, 3, s.Urgent)

	// The done urgent task's earlier due date does not count as upcoming.
	assert.Equal(t, "2026-09-01", s.NextUrgentDue)
}

func TestSummarize_NoUrgentDue(t *testing.T) {
	s := Summarize([]model.Task{
		{ID: "t1", Status: model.StatusTodo, Priority: model.PriorityMedium, DueDate: "2026-01-01"},
	})
	assert.Zero(t, s.Urgent)
	assert.Empty(t, s.NextUrgentDue)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.Empty(t, s.NextUrgentDue)
}
