package contact

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/BastianThoma/join/internal/model"
)

type Handler struct {
	repo         Repo
	repoResolver func(*http.Request) Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) SetRepoResolver(fn func(*http.Request) Repo) {
	h.repoResolver = fn
}

func (h *Handler) repoForRequest(r *http.Request) Repo {
	if h.repoResolver != nil {
		if repo := h.repoResolver(r); repo != nil {
			return repo
		}
	}
	return h.repo
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
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Color string `json:"color"`
}

// /api/contacts  (collection)
func (h *Handler) ContactsRoot(w http.ResponseWriter, r *http.Request) {
	repo := h.repoForRequest(r)

	switch r.Method {
	case http.MethodGet:
		cs, err := repo.List(r.Context())
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, cs)

	case http.MethodPost:
		var in Upsert
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		c, err := repo.Create(r.Context(), model.Contact{
			Name:  in.Name,
			Email: in.Email,
			Phone: in.Phone,
			Color: in.Color,
		})
		if errors.Is(err, ErrNameMissing) {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, c)

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// /api/contacts/grouped
func (h *Handler) ContactsGrouped(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	cs, err := h.repoForRequest(r).List(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, GroupByLetter(cs))
}

// /api/contacts/{id}
func (h *Handler) ContactsSub(w http.ResponseWriter, r *http.Request) {
	repo := h.repoForRequest(r)

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/contacts/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := repo.Get(r.Context(), model.ContactID(id))
		if errors.Is(err, ErrNotFound) {
			writeErr(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodPatch:
		var p Patch
		if err := decodeJSON(r, &p); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		c, err := repo.Update(r.Context(), model.ContactID(id), p)
		if errors.Is(err, ErrNotFound) {
			writeErr(w, http.StatusNotFound, "not found")
			return
		}
		if errors.Is(err, ErrNameMissing) {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		if err := repo.Delete(r.Context(), model.ContactID(id)); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeErr(w, http.StatusNotFound, "not found")
				return
			}
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": id})

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
