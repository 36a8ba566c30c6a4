package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cespare/xxhash/v2"
	"github.com/gorilla/mux"

	"github.com/inamate/stickers/internal/auth"
)

// PasscodeHeader carries the board passcode on read requests.
const PasscodeHeader = "X-Board-Passcode"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name     string `json:"name"`
	Passcode string `json:"passcode"`
	Sample   bool   `json:"sample"`
}

type joinRequest struct {
	Passcode string `json:"passcode"`
}

type hitRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Register mounts the board routes on an authenticated router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/boards", h.Create).Methods("POST")
	r.HandleFunc("/boards/{boardId}", h.Get).Methods("GET")
	r.HandleFunc("/boards/{boardId}", h.Delete).Methods("DELETE")
	r.HandleFunc("/boards/{boardId}/join", h.Join).Methods("POST")
	r.HandleFunc("/boards/{boardId}/snapshot", h.Snapshot).Methods("GET")
	r.HandleFunc("/boards/{boardId}/hit", h.HitTest).Methods("POST")
	r.HandleFunc("/boards/{boardId}/render", h.Render).Methods("GET")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	board, err := h.service.Create(r.Context(), userID, CreateParams{
		Name:     req.Name,
		Passcode: req.Passcode,
		Sample:   req.Sample,
	})
	if err != nil {
		slog.Error("create board failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, board)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	board, ok := h.authorize(w, r, r.Header.Get(PasscodeHeader))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	board, ok := h.authorize(w, r, req.Passcode)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	boardID := mux.Vars(r)["boardId"]

	if err := h.service.Delete(r.Context(), boardID, userID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	board, ok := h.authorize(w, r, r.Header.Get(PasscodeHeader))
	if !ok {
		return
	}

	doc, err := h.service.Document(r.Context(), board.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	data, err := json.Marshal(doc)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeCached(w, r, data)
}

func (h *Handler) HitTest(w http.ResponseWriter, r *http.Request) {
	board, ok := h.authorize(w, r, r.Header.Get(PasscodeHeader))
	if !ok {
		return
	}

	var req hitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.service.HitTest(r.Context(), board.ID, req.X, req.Y)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	board, ok := h.authorize(w, r, r.Header.Get(PasscodeHeader))
	if !ok {
		return
	}

	commands, err := h.service.Render(r.Context(), board.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeCached(w, r, []byte(commands))
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, passcode string) (*Board, bool) {
	userID := auth.UserIDFromContext(r.Context())
	boardID := mux.Vars(r)["boardId"]

	board, err := h.service.Authorize(r.Context(), boardID, userID, passcode)
	if err != nil {
		handleServiceError(w, err)
		return nil, false
	}
	return board, true
}

// writeCached writes a JSON body with a content hash ETag and answers
// matching conditional requests with 304.
func writeCached(w http.ResponseWriter, r *http.Request, data []byte) {
	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(data))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
