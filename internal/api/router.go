package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/notestore"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// publish, if non-nil, is called after every successful mutation.
func NewRouter(store *notestore.Store, authEnabled bool, token string, sseHandler http.Handler, publish notestore.EventCallback) chi.Router {
	h := NewHandler(store, publish)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Search.
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
