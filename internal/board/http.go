package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/BastianThoma/join/internal/model"
)

// Handler handles board-related HTTP requests.
type Handler struct {
	board         *Board
	boardResolver func(*http.Request) *Board
}

func NewHandler(b *Board) *Handler {
	return &Handler{board: b}
}

// SetBoardResolver binds boards to the request, typically per session
// user.
func (h *Handler) SetBoardResolver(fn func(*http.Request) *Board) {
	h.boardResolver = fn
}

func (h *Handler) boardFromRequest(r *http.Request) *Board {
	if h.boardResolver != nil {
		if b := h.boardResolver(r); b != nil {
			return b
		}
	}
	return h.board
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

// GET /api/board/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.boardFromRequest(r).State())
}

// CommandRequest is the request body for POST /api/board/cmd.
type CommandRequest struct {
	Cmd  string         `json:"cmd"`
	Args map[string]any `json:"args"`
}

// CommandResponse is the response for POST /api/board/cmd.
type CommandResponse struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// POST /api/board/cmd
func (h *Handler) Command(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req CommandRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	b := h.boardFromRequest(r)
	result, err := h.executeCommand(r, b, req.Cmd, req.Args)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, ErrTaskNotOnBoard) {
			code = http.StatusNotFound
		}
		writeJSON(w, code, CommandResponse{OK: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, CommandResponse{OK: true, Result: result})
}

func (h *Handler) executeCommand(r *http.Request, b *Board, cmd string, args map[string]any) (any, error) {
	switch cmd {
	case "board.move":
		return h.cmdMove(b, args)
	case "board.refresh":
		if err := b.Refresh(r.Context()); err != nil {
			return nil, err
		}
		return b.State(), nil
	case "board.summary":
		return b.Summary(), nil
	default:
		return nil, fmt.Errorf("unknown command: %s", cmd)
	}
}

// board.move { from, to, fromIndex, toIndex, taskId }
func (h *Handler) cmdMove(b *Board, args map[string]any) (any, error) {
	from, err := getString(args, "from")
	if err != nil {
		return nil, err
	}
	to, err := getString(args, "to")
	if err != nil {
		return nil, err
	}
	fromIndex, err := getInt(args, "fromIndex")
	if err != nil {
		return nil, err
	}
	toIndex, err := getInt(args, "toIndex")
	if err != nil {
		return nil, err
	}
	taskID, err := getString(args, "taskId")
	if err != nil {
		return nil, err
	}

	res, err := b.ApplyMove(MoveEvent{
		From:      from,
		To:        to,
		FromIndex: fromIndex,
		ToIndex:   toIndex,
		TaskID:    model.TaskID(taskID),
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"move":  res,
		"state": b.State(),
	}, nil
}

// Helper to get string from args
func getString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required field: %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %s must be a string", key)
	}
	return s, nil
}

// Helper to get int from args (JSON numbers are float64)
func getInt(args map[string]any, key string) (int, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing required field: %s", key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("field %s must be a number", key)
	}
	return int(f), nil
}
