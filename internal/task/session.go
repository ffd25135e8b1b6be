package task

import (
	"context"
	"errors"
	"strings"

	"github.com/BastianThoma/join/internal/model"
)

var (
	ErrNotEditing           = errors.New("no edit in progress")
	ErrAlreadyEditing       = errors.New("edit already in progress")
	ErrConfirmationRequired = errors.New("deletion requires confirmation")
)

// Session is the detail/edit state machine for a single selected task.
// Viewing: no buffer. Editing: a deep-copied buffer absorbs all mutations
// until Save commits them or Cancel discards them. The committed record is
// never touched while editing.
type Session struct {
	repo     Repo
	selected model.Task
	contacts []model.Contact

	buffer   *model.Task
	filtered []model.Contact
}

func NewSession(repo Repo, selected model.Task, contacts []model.Contact) *Session {
	return &Session{
		repo:     repo,
		selected: selected,
		contacts: contacts,
	}
}

// Selected returns the committed record.
func (s *Session) Selected() model.Task {
	return s.selected
}

func (s *Session) Editing() bool {
	return s.buffer != nil
}

// Edit transitions Viewing -> Editing by cloning the committed record into
// the buffer and seeding the contact working list from the full set.
func (s *Session) Edit() error {
	if s.buffer != nil {
		return ErrAlreadyEditing
	}
	buf := s.selected.Clone()
	s.buffer = &buf
	s.filtered = append([]model.Contact{}, s.contacts...)
	return nil
}

// Buffer exposes the edit buffer for field-level edits. It is nil while
// viewing.
func (s *Session) Buffer() *model.Task {
	return s.buffer
}

func (s *Session) AddSubtask(text string) error {
	if s.buffer == nil {
		return ErrNotEditing
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	s.buffer.Subtasks = append(s.buffer.Subtasks, text)
	return nil
}

func (s *Session) RemoveSubtask(index int) error {
	if s.buffer == nil {
		return ErrNotEditing
	}
	if index < 0 || index >= len(s.buffer.Subtasks) {
		return nil
	}
	s.buffer.Subtasks = append(s.buffer.Subtasks[:index:index], s.buffer.Subtasks[index+1:]...)
	s.buffer.NormalizeCompleted()
	return nil
}

// ToggleAssignment flips a contact's membership in the buffer's assignee
// set.
func (s *Session) ToggleAssignment(id model.ContactID) error {
	if s.buffer == nil {
		return ErrNotEditing
	}
	if s.buffer.AssignedToContact(id) {
		out := make([]model.ContactID, 0, len(s.buffer.AssignedTo))
		for _, a := range s.buffer.AssignedTo {
			if a != id {
				out = append(out, a)
			}
		}
		s.buffer.AssignedTo = out
	} else {
		s.buffer.AssignedTo = append(s.buffer.AssignedTo, id)
	}
	return nil
}

// FilterContacts narrows the working contact list by a name substring.
// An empty query restores the full set.
func (s *Session) FilterContacts(query string) []model.Contact {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		s.filtered = append([]model.Contact{}, s.contacts...)
		return s.filtered
	}
	out := make([]model.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if strings.Contains(strings.ToLower(c.Name), query) {
			out = append(out, c)
		}
	}
	s.filtered = out
	return s.filtered
}

// Save validates the buffer and commits it: a partial remote update of
// exactly the editable fields, then the committed record takes the
// buffer's values. On validation failure the session stays in Editing and
// no remote call happens.
func (s *Session) Save(ctx context.Context) (model.Task, error) {
	if s.buffer == nil {
		return model.Task{}, ErrNotEditing
	}
	if err := Validate(*s.buffer); err != nil {
		return model.Task{}, err
	}

	p := Patch{
		Title:       &s.buffer.Title,
		Description: &s.buffer.Description,
		DueDate:     &s.buffer.DueDate,
		Priority:    &s.buffer.Priority,
		AssignedTo:  &s.buffer.AssignedTo,
		Category:    &s.buffer.Category,
		Subtasks:    &s.buffer.Subtasks,
	}
	updated, err := s.repo.Update(ctx, s.selected.ID, p)
	if err != nil {
		return model.Task{}, err
	}

	// Non-editable fields keep their committed values.
	updated.Status = s.selected.Status
	updated.CompletedSubtasks = s.selected.CompletedSubtasks
	updated.CreatedAt = s.selected.CreatedAt
	s.selected = updated
	s.buffer = nil
	s.filtered = nil
	return s.selected, nil
}

// Cancel discards the buffer; the committed record is untouched and no
// remote call is made.
func (s *Session) Cancel() {
	s.buffer = nil
	s.filtered = nil
}

// ToggleSubtaskDone flips value-keyed completion on the committed record
// and immediately persists just that field. This path is independent of
// edit mode.
func (s *Session) ToggleSubtaskDone(ctx context.Context, text string) (model.Task, error) {
	working := s.selected.Clone()
	completed := working.ToggleSubtask(text)
	if err := s.repo.UpdateCompleted(ctx, s.selected.ID, completed); err != nil {
		return model.Task{}, err
	}
	s.selected = working
	return s.selected, nil
}

// Delete soft-deletes the committed record. The confirmation gate is
// explicit: an unconfirmed call does nothing and issues no remote call.
func (s *Session) Delete(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	return s.repo.SoftDelete(ctx, s.selected.ID)
}
