package task

import (
	"context"
	"errors"
	"time"

	"github.com/BastianThoma/join/internal/docstore"
	"github.com/BastianThoma/join/internal/model"
)

var ErrNotFound = errors.New("task not found")

const collectionName = "tasks"

// Patch is a partial update of the editable task fields. nil pointer means
// "no change". The save path never carries status, completedSubtasks,
// createdAt or deleted; those have their own narrower write paths.
type Patch struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	DueDate     *string            `json:"dueDate,omitempty"`
	Priority    *model.Priority    `json:"priority,omitempty"`
	AssignedTo  *[]model.ContactID `json:"assignedTo,omitempty"`
	Category    *string            `json:"category,omitempty"`
	Subtasks    *[]string          `json:"subtasks,omitempty"`
}

func (p Patch) fields() map[string]any {
	f := map[string]any{}
	if p.Title != nil {
		f["title"] = *p.Title
	}
	if p.Description != nil {
		f["description"] = *p.Description
	}
	if p.DueDate != nil {
		f["dueDate"] = *p.DueDate
	}
	if p.Priority != nil {
		f["priority"] = string(*p.Priority)
	}
	if p.AssignedTo != nil {
		ids := make([]any, 0, len(*p.AssignedTo))
		for _, id := range *p.AssignedTo {
			ids = append(ids, string(id))
		}
		f["assignedTo"] = ids
	}
	if p.Category != nil {
		f["category"] = *p.Category
	}
	if p.Subtasks != nil {
		f["subtasks"] = stringsToAny(*p.Subtasks)
	}
	return f
}

func (p Patch) apply(t *model.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssignedTo != nil {
		t.AssignedTo = append([]model.ContactID{}, (*p.AssignedTo)...)
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Subtasks != nil {
		t.Subtasks = append([]string{}, (*p.Subtasks)...)
	}
}

type Repo interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id model.TaskID) (model.Task, error)

	// List returns all non-deleted tasks in store order, mapping a missing
	// status to todo.
	List(ctx context.Context) ([]model.Task, error)

	Update(ctx context.Context, id model.TaskID, p Patch) (model.Task, error)
	UpdateStatus(ctx context.Context, id model.TaskID, status model.Status) error
	UpdateCompleted(ctx context.Context, id model.TaskID, completed []string) error
	SoftDelete(ctx context.Context, id model.TaskID) error
}

// StoreRepo adapts the document store into the typed task API. Collections
// are scoped per user.
type StoreRepo struct {
	store docstore.Store
	coll  string
}

func NewStoreRepo(store docstore.Store) *StoreRepo {
	return &StoreRepo{store: store, coll: collectionName}
}

// ForUser returns a repo scoped to the given user's task collection.
func (r *StoreRepo) ForUser(userID string) *StoreRepo {
	if userID == "" {
		return r
	}
	return &StoreRepo{store: r.store, coll: "users/" + userID + "/" + collectionName}
}

func taskFields(t model.Task) map[string]any {
	return map[string]any{
		"title":             t.Title,
		"description":       t.Description,
		"dueDate":           t.DueDate,
		"priority":          string(t.Priority),
		"assignedTo":        contactIDsToAny(t.AssignedTo),
		"category":          t.Category,
		"subtasks":          stringsToAny(t.Subtasks),
		"completedSubtasks": stringsToAny(t.CompletedSubtasks),
		"status":            string(t.Status),
		"createdAt":         t.CreatedAt.UTC().Format(time.RFC3339),
		"deleted":           t.Deleted,
	}
}

func taskFromDocument(d docstore.Document) model.Task {
	f := d.Fields
	t := model.Task{
		ID:                model.TaskID(d.ID),
		Title:             stringField(f, "title"),
		Description:       stringField(f, "description"),
		DueDate:           stringField(f, "dueDate"),
		Priority:          model.Priority(stringField(f, "priority")),
		Category:          stringField(f, "category"),
		Subtasks:          stringSliceField(f, "subtasks"),
		CompletedSubtasks: stringSliceField(f, "completedSubtasks"),
		Status:            model.Status(stringField(f, "status")),
		Deleted:           boolField(f, "deleted"),
	}
	for _, id := range stringSliceField(f, "assignedTo") {
		t.AssignedTo = append(t.AssignedTo, model.ContactID(id))
	}
	if raw := stringField(f, "createdAt"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			t.CreatedAt = ts
		}
	}
	// Schema-evolution default: records written before the board existed
	// carry no status.
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if !model.ValidPriority(t.Priority) {
		t.Priority = model.PriorityMedium
	}
	return t
}

func (r *StoreRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	t.CreatedAt = time.Now().UTC().Truncate(time.Second)
	t.Deleted = false

	id, err := r.store.Insert(ctx, r.coll, taskFields(t))
	if err != nil {
		return model.Task{}, err
	}
	t.ID = model.TaskID(id)
	return t, nil
}

func (r *StoreRepo) Get(ctx context.Context, id model.TaskID) (model.Task, error) {
	docs, err := r.store.List(ctx, r.coll)
	if err != nil {
		return model.Task{}, err
	}
	for _, d := range docs {
		if d.ID == string(id) {
			t := taskFromDocument(d)
			if t.Deleted {
				return model.Task{}, ErrNotFound
			}
			return t, nil
		}
	}
	return model.Task{}, ErrNotFound
}

func (r *StoreRepo) List(ctx context.Context) ([]model.Task, error) {
	docs, err := r.store.List(ctx, r.coll)
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(docs))
	for _, d := range docs {
		t := taskFromDocument(d)
		if t.Deleted {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *StoreRepo) Update(ctx context.Context, id model.TaskID, p Patch) (model.Task, error) {
	cur, err := r.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if err := r.storeUpdate(ctx, id, p.fields()); err != nil {
		return model.Task{}, err
	}
	p.apply(&cur)
	return cur, nil
}

func (r *StoreRepo) UpdateStatus(ctx context.Context, id model.TaskID, status model.Status) error {
	return r.storeUpdate(ctx, id, map[string]any{"status": string(status)})
}

func (r *StoreRepo) UpdateCompleted(ctx context.Context, id model.TaskID, completed []string) error {
	return r.storeUpdate(ctx, id, map[string]any{"completedSubtasks": stringsToAny(completed)})
}

func (r *StoreRepo) SoftDelete(ctx context.Context, id model.TaskID) error {
	return r.storeUpdate(ctx, id, map[string]any{"deleted": true})
}

func (r *StoreRepo) storeUpdate(ctx context.Context, id model.TaskID, fields map[string]any) error {
	err := r.store.Update(ctx, r.coll, string(id), fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Field map decoding helpers. Values may arrive as native Go slices from
// the memory store or as []any after a JSON round trip.

func stringField(f map[string]any, key string) string {
	s, _ := f[key].(string)
	return s
}

func boolField(f map[string]any, key string) bool {
	b, _ := f[key].(bool)
	return b
}

func stringSliceField(f map[string]any, key string) []string {
	switch v := f[key].(type) {
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func stringsToAny(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

func contactIDsToAny(in []model.ContactID) []any {
	out := make([]any, 0, len(in))
	for _, id := range in {
		out = append(out, string(id))
	}
	return out
}
