package api

import (
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/notestore"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// UpdateNoteRequest is the request body for updating a note. Absent fields
// are left unchanged; an explicit empty tags array clears the tags.
type UpdateNoteRequest struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.IndexEntry `json:"notes"`
	Total int                 `json:"total"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []notestore.SearchResult `json:"results"`
}
