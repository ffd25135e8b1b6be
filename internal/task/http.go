package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/BastianThoma/join/internal/contact"
	"github.com/BastianThoma/join/internal/model"
)

// BoardSync mirrors committed task changes into a live board's flat list.
type BoardSync interface {
	ReplaceTask(t model.Task)
	RemoveTask(id model.TaskID)
}

type Handler struct {
	repo            Repo
	repoResolver    func(*http.Request) Repo
	contactResolver func(*http.Request) contact.Repo
	boardResolver   func(*http.Request) BoardSync
}

func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) SetRepoResolver(fn func(*http.Request) Repo) {
	h.repoResolver = fn
}

func (h *Handler) SetContactResolver(fn func(*http.Request) contact.Repo) {
	h.contactResolver = fn
}

func (h *Handler) SetBoardResolver(fn func(*http.Request) BoardSync) {
	h.boardResolver = fn
}

func (h *Handler) repoForRequest(r *http.Request) Repo {
	if h.repoResolver != nil {
		if repo := h.repoResolver(r); repo != nil {
			return repo
		}
	}
	return h.repo
}

func (h *Handler) contactsForRequest(r *http.Request) []model.Contact {
	if h.contactResolver == nil {
		return nil
	}
	repo := h.contactResolver(r)
	if repo == nil {
		return nil
	}
	contacts, err := repo.List(r.Context())
	if err != nil {
		return nil
	}
	return contacts
}

func (h *Handler) boardForRequest(r *http.Request) BoardSync {
	if h.boardResolver == nil {
		return nil
	}
	return h.boardResolver(r)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// Upsert is the create payload.
type Upsert struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     string            `json:"dueDate"`
	Priority    model.Priority    `json:"priority"`
	AssignedTo  []model.ContactID `json:"assignedTo"`
	Category    string            `json:"category"`
	Subtasks    []string          `json:"subtasks"`
	Status      model.Status      `json:"status"`
}

// /api/tasks  (collection)
func (h *Handler) TasksRoot(w http.ResponseWriter, r *http.Request) {
	repo := h.repoForRequest(r)

	switch r.Method {
	case http.MethodGet:
		ts, err := repo.List(r.Context())
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, ts)

	case http.MethodPost:
		var in Upsert
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		t := model.Task{
			Title:       in.Title,
			Description: in.Description,
			DueDate:     in.DueDate,
			Priority:    in.Priority,
			AssignedTo:  in.AssignedTo,
			Category:    in.Category,
			Subtasks:    in.Subtasks,
			Status:      in.Status,
		}
		if t.Status != "" && !model.ValidStatus(t.Status) {
			writeErr(w, http.StatusBadRequest, "invalid status")
			return
		}
		// Required-field gate runs before any remote call.
		if err := Validate(t); err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := repo.Create(r.Context(), t)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		if b := h.boardForRequest(r); b != nil {
			b.ReplaceTask(created)
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// /api/tasks/{id} and /api/tasks/{id}/subtask
func (h *Handler) TasksSub(w http.ResponseWriter, r *http.Request) {
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/tasks/"), "/")
	if tail == "" {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	parts := strings.Split(tail, "/")
	id := model.TaskID(parts[0])

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getTask(w, r, id)
		case http.MethodPatch:
			h.patchTask(w, r, id)
		case http.MethodDelete:
			h.deleteTask(w, r, id)
		default:
			writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if len(parts) == 2 && parts[1] == "subtask" {
		if r.Method != http.MethodPut {
			writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.toggleSubtask(w, r, id)
		return
	}

	writeErr(w, http.StatusNotFound, "not found")
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request, id model.TaskID) {
	t, err := h.repoForRequest(r).Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// patchTask runs a full edit session per request: clone into a buffer,
// apply the payload, save. A validation failure aborts before any remote
// write.
func (h *Handler) patchTask(w http.ResponseWriter, r *http.Request, id model.TaskID) {
	repo := h.repoForRequest(r)

	var p Patch
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	if p.Priority != nil && !model.ValidPriority(*p.Priority) {
		writeErr(w, http.StatusBadRequest, "invalid priority")
		return
	}

	cur, err := repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	s := NewSession(repo, cur, h.contactsForRequest(r))
	if err := s.Edit(); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	p.apply(s.Buffer())

	saved, err := s.Save(r.Context())
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			writeErr(w, http.StatusBadRequest, ve.Error())
			return
		}
		if errors.Is(err, ErrNotFound) {
			writeErr(w, http.StatusNotFound, "not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	if b := h.boardForRequest(r); b != nil {
		b.ReplaceTask(saved)
	}
	writeJSON(w, http.StatusOK, saved)
}

// deleteTask soft-deletes behind the explicit confirmation gate.
func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request, id model.TaskID) {
	repo := h.repoForRequest(r)

	cur, err := repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"
	s := NewSession(repo, cur, nil)
	if err := s.Delete(r.Context(), confirmed); err != nil {
		if errors.Is(err, ErrConfirmationRequired) {
			writeErr(w, http.StatusConflict, err.Error())
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	if b := h.boardForRequest(r); b != nil {
		b.RemoveTask(id)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": id})
}

// toggleSubtask is the narrow completion write path, independent of edit
// mode.
func (h *Handler) toggleSubtask(w http.ResponseWriter, r *http.Request, id model.TaskID) {
	repo := h.repoForRequest(r)

	var in struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	if strings.TrimSpace(in.Text) == "" {
		writeErr(w, http.StatusBadRequest, `missing field "text"`)
		return
	}

	cur, err := repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	s := NewSession(repo, cur, nil)
	updated, err := s.ToggleSubtaskDone(r.Context(), in.Text)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeErr(w, http.StatusNotFound, "not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	if b := h.boardForRequest(r); b != nil {
		b.ReplaceTask(updated)
	}
	writeJSON(w, http.StatusOK, updated)
}
