package note

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"journal/internal/note/model"
	"journal/internal/note/service"
	"journal/pkg/logger"
	"journal/store"
)

type NoteHandler struct {
	Service *service.NoteService
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{Service: service}
}

// Notes serves the collection: GET lists, POST creates, DELETE removes ?id=.
func (h *NoteHandler) Notes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.ListNotes(w, r)
	case http.MethodPost:
		h.CreateNote(w, r)
	case http.MethodDelete:
		h.DeleteNote(w, r)
	default:
		jsonErr(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// Note serves /notes/{id}: GET fetches, DELETE removes.
func (h *NoteHandler) Note(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.GetNote(w, r)
	case http.MethodDelete:
		h.DeleteNote(w, r)
	default:
		jsonErr(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Service.ListNotes(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to read notes: %v", err)
		jsonErr(w, http.StatusInternalServerError, "Failed to read notes")
		return
	}
	jsonResp(w, http.StatusOK, notes)
}

func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	n, err := h.Service.GetNote(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonErr(w, http.StatusNotFound, "Note not found")
		return
	}
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to read note %s: %v", id, err)
		jsonErr(w, http.StatusInternalServerError, "Failed to read note")
		return
	}
	jsonResp(w, http.StatusOK, n)
}

func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req model.Note
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			jsonErr(w, http.StatusBadRequest, "Request body is required")
			return
		}
		jsonErr(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		jsonErr(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.Service.CreateNote(r.Context(), req)
	switch {
	case errors.Is(err, service.ErrMissingID):
		jsonErr(w, http.StatusBadRequest, "Note id is required")
	case errors.Is(err, store.ErrConflict):
		jsonErr(w, http.StatusConflict, "Note with this id already exists")
	case err != nil:
		logger.Sugar.Errorf("Handler: Failed to save note %s: %v", req.ID, err)
		jsonErr(w, http.StatusInternalServerError, "Failed to save note")
	default:
		jsonResp(w, http.StatusCreated, created)
	}
}

// DeleteNote accepts the id as a path segment or an ?id= query parameter.
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		id = r.URL.Query().Get("id")
	}
	if id == "" {
		jsonErr(w, http.StatusBadRequest, "Missing id parameter")
		return
	}

	err := h.Service.DeleteNote(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrFileMissing):
		jsonErr(w, http.StatusNotFound, "Database file not found")
	case errors.Is(err, store.ErrNotFound):
		jsonErr(w, http.StatusNotFound, "Note not found")
	case err != nil:
		logger.Sugar.Errorf("Handler: Failed to delete note %s: %v", id, err)
		jsonErr(w, http.StatusInternalServerError, "Failed to delete note")
	default:
		jsonResp(w, http.StatusOK, model.MessageResponse{Message: "Note deleted successfully"})
	}
}

func (h *NoteHandler) Categories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, model.CategoriesResponse{Categories: h.Service.Categories()})
}

func jsonResp(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Failed to encode response: %v", err)
	}
}

func jsonErr(w http.ResponseWriter, status int, msg string) {
	jsonResp(w, status, model.ErrorResponse{Error: msg})
}
