package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/notestore"
)

// Handler holds API route handlers.
type Handler struct {
	store   *notestore.Store
	publish notestore.EventCallback
}

// NewHandler creates a new Handler. publish may be nil.
func NewHandler(store *notestore.Store, publish notestore.EventCallback) *Handler {
	return &Handler{store: store, publish: publish}
}

func (h *Handler) notify(kind, id string) {
	if h.publish != nil {
		h.publish(kind, id)
	}
}

// writeError maps store errors onto HTTP status codes.
func writeError(w http.ResponseWriter, op string, err error) {
	var corrupt *apperr.CorruptError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.As(err, &corrupt):
		slog.Error(op+" failed: store corrupt", slog.Any("ids", corrupt.IDs))
		writeJSON(w, http.StatusInternalServerError, errorBody(corrupt.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListNotes handles GET /api/notes with an optional tag filter.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")

	entries, err := h.store.List(r.Context(), tag)
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: entries, Total: len(entries)})
}

// GetNote handles GET /api/notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	note, err := h.store.Create(r.Context(), req.Title, req.Content, req.Tags)
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	h.notify("created", note.ID)
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	note, err := h.store.Update(r.Context(), id, notestore.UpdateParams{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		writeError(w, "update note", err)
		return
	}
	h.notify("updated", note.ID)
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, "delete note", err)
		return
	}
	h.notify("deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	results, err := h.store.Search(r.Context(), q)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	if results == nil {
		results = []notestore.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
