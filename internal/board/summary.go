package board

import (
	"github.com/BastianThoma/join/internal/model"
)

// Summary is the dashboard view of the board: aggregate counts over the
// non-deleted flat list.
type Summary struct {
	Total         int `json:"total"`
	Todo          int `json:"todo"`
	InProgress    int `json:"inprogress"`
	AwaitFeedback int `json:"awaitfeedback"`
	Done          int `json:"done"`
	Urgent        int `json:"urgent"`

	// NextUrgentDue is the earliest due date among urgent, not-yet-done
	// tasks; empty when there are none.
	NextUrgentDue string `json:"nextUrgentDue,omitempty"`
}

// Summarize computes board counts. Soft-deleted tasks never count.
func Summarize(tasks []model.Task) Summary {
	var s Summary
	for _, t := range tasks {
		if t.Deleted {
			continue
		}
		s.Total++
		switch t.Status {
		case model.StatusInProgress:
			s.InProgress++
		case model.StatusAwaitFeedback:
			s.AwaitFeedback++
		case model.StatusDone:
			s.Done++
		default:
			s.Todo++
		}
		if t.Priority == model.PriorityUrgent {
			s.Urgent++
			if t.Status != model.StatusDone && t.DueDate != "" {
				// YYYY-MM-DD compares lexicographically.
				if s.NextUrgentDue == "" || t.DueDate < s.NextUrgentDue {
					s.NextUrgentDue = t.DueDate
				}
			}
		}
	}
	return s
}

func (b *Board) Summary() Summary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Summarize(b.tasks)
}
