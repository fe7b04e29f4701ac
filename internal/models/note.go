// Package models defines the domain types for Ansuz.
package models

import "time"

// Note represents a single persisted note. The note file is the source of
// truth; the index entry is derived from it.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IndexEntry is the denormalized summary of a Note kept in the index file,
// used by list and search without reading per-note files.
type IndexEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entry returns the index entry derived from the note.
func (n *Note) Entry() IndexEntry {
	return IndexEntry{
		ID:        n.ID,
		Title:     n.Title,
		Tags:      n.Tags,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// HasTag reports whether the entry's tag set contains tag.
func (e IndexEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
