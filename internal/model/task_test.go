package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTask_CloneIsDeep(t *testing.T) {
	orig := Task{
		Title:             "Kochwelt page",
		AssignedTo:        []ContactID{"c1", "c2"},
		Subtasks:          []string{"layout", "recommender"},
		CompletedSubtasks: []string{"layout"},
	}

	c := orig.Clone()
	c.AssignedTo[0] = "other"
	c.Subtasks[0] = "changed"
	c.CompletedSubtasks[0] = "changed"

	assert.Equal(t, ContactID("c1"), orig.AssignedTo[0])
	assert.Equal(t, "layout", orig.Subtasks[0])
	assert.Equal(t, "layout", orig.CompletedSubtasks[0])
}

func TestTask_ToggleSubtask(t *testing.T) {
	task := Task{Subtasks: []string{"a", "b"}}

	task.ToggleSubtask("a")
	assert.True(t, task.SubtaskDone("a"))

	task.ToggleSubtask("a")
	assert.False(t, task.SubtaskDone("a"))
	assert.Empty(t, task.CompletedSubtasks)
}

func TestTask_NormalizeCompletedDropsStaleEntries(t *testing.T) {
	task := Task{
		Subtasks:          []string{"keep"},
		CompletedSubtasks: []string{"keep", "removed subtask"},
	}
	task.NormalizeCompleted()
	assert.Equal(t, []string{"keep"}, task.CompletedSubtasks)
}

func TestValidStatusAndPriority(t *testing.T) {
	assert.True(t, ValidStatus(StatusTodo))
	assert.True(t, ValidStatus(StatusAwaitFeedback))
	assert.False(t, ValidStatus("archived"))

	assert.True(t, ValidPriority(PriorityUrgent))
	assert.False(t, ValidPriority("extreme"))
}

func TestContact_Initials(t *testing.T) {
	assert.Equal(t, "AM", Contact{Name: "Anton Mayer"}.Initials())
	assert.Equal(t, "A", Contact{Name: "anton"}.Initials())
	assert.Equal(t, "AM", Contact{Name: "Anton Michael Mayer"}.Initials())
	assert.Equal(t, "", Contact{Name: ""}.Initials())
}

func TestContact_GroupLetter(t *testing.T) {
	assert.Equal(t, "A", Contact{Name: "anton"}.GroupLetter())
	assert.Equal(t, "Z", Contact{Name: "Zoe"}.GroupLetter())
	assert.Equal(t, "#", Contact{Name: "42crew"}.GroupLetter())
	assert.Equal(t, "#", Contact{Name: ""}.GroupLetter())
}
