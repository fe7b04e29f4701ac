// Package notestore implements the note store: CRUD and query operations
// over per-note JSON files plus the denormalized index file.
//
// Every mutation writes the note file first and the index second, so an
// interruption between the two leaves a divergence that the open-time scan
// detects and reports instead of silently losing. The store is safe for
// concurrent use within a single process. Concurrent processes writing the
// same directory can lose index updates: there is no cross-process locking,
// and callers are expected to serialize invocations themselves.
package notestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// SearchResult is one search hit: the matching entry plus which field matched.
type SearchResult struct {
	models.IndexEntry
	Matched string `json:"matched"` // "title" or "content"
}

// UpdateParams carries the optional fields of an update. A nil field is left
// unchanged; a non-nil empty Tags slice clears the tags.
type UpdateParams struct {
	Title   *string
	Content *string
	Tags    *[]string
}

// Store provides CRUD and query operations over one store directory.
type Store struct {
	mu      sync.RWMutex
	files   storage.Provider
	idx     *index.File
	entries map[string]models.IndexEntry
	corrupt []string // ids flagged by the consistency scan
}

// Open initializes the store at dir, creating the directory and an empty
// index on first use, and runs the consistency scan.
func Open(dir string) (*Store, error) {
	files, err := storage.NewFS(dir)
	if err != nil {
		return nil, err
	}
	return OpenWith(files)
}

// OpenWith is like Open but accepts an existing provider.
func OpenWith(files storage.Provider) (*Store, error) {
	s := &Store{
		files: files,
		idx:   index.New(files),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the index and rebuilds the corruption report. Caller must hold
// the write lock (or be the constructor).
func (s *Store) load() error {
	entries, err := s.idx.Load()
	if err != nil {
		return err
	}
	s.entries = entries
	s.corrupt = s.scan()
	return nil
}

// scan cross-checks the index against the note files on disk: every entry
// must have a backing file and every note file must have an entry. Returns
// the affected ids, sorted.
func (s *Store) scan() []string {
	flagged := map[string]struct{}{}

	for id := range s.entries {
		ok, err := s.files.Exists(notePath(id))
		if err != nil || !ok {
			flagged[id] = struct{}{}
		}
	}

	names, err := s.files.List()
	if err != nil {
		return sortedKeys(flagged)
	}
	for _, name := range names {
		if name == index.FileName {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if _, ok := s.entries[id]; !ok {
			flagged[id] = struct{}{}
		}
	}
	return sortedKeys(flagged)
}

// Reload re-reads the index from disk and re-runs the consistency scan.
// Used by the watcher when another process has touched the store.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Entries returns a copy of the current index snapshot.
func (s *Store) Entries() map[string]models.IndexEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.IndexEntry, len(s.entries))
	for id, e := range s.entries {
		out[id] = e
	}
	return out
}

// Create validates the input, assigns a fresh id, and persists the note:
// note file first, then the index entry.
func (s *Store) Create(_ context.Context, title, content string, tags []string) (*models.Note, error) {
	if err := validation.Validate(strings.TrimSpace(title), validation.Required); err != nil {
		return nil, apperr.Validationf("create: title is required")
	}
	if tags == nil {
		tags = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	now := time.Now()
	note := &models.Note{
		ID:        id,
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.writeNote(note); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	s.entries[note.ID] = note.Entry()
	if err := s.idx.Save(s.entries); err != nil {
		return nil, fmt.Errorf("create %s: %w", note.ID, err)
	}
	return note, nil
}

// Get reads a note by id. An id absent from the index is ErrNotFound; an id
// the index claims but whose file is missing or malformed is a CorruptError.
func (s *Store) Get(_ context.Context, id string) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(id)
}

func (s *Store) getLocked(id string) (*models.Note, error) {
	if s.isFlagged(id) {
		return nil, &apperr.CorruptError{IDs: []string{id}}
	}
	if _, ok := s.entries[id]; !ok {
		return nil, fmt.Errorf("get %s: %w", id, apperr.ErrNotFound)
	}
	return s.readNote(id)
}

// List returns index entries ordered by updated_at descending (ties broken
// by id ascending), optionally filtered by tag. It reads only the index.
func (s *Store) List(_ context.Context, tag string) ([]models.IndexEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.corrupt) > 0 {
		return nil, &apperr.CorruptError{IDs: append([]string(nil), s.corrupt...)}
	}

	out := make([]models.IndexEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if tag != "" && !e.HasTag(tag) {
			continue
		}
		out = append(out, e)
	}
	index.Sort(out)
	return out, nil
}

// Update applies the provided fields to an existing note, refreshes
// updated_at, and rewrites the note file and the index entry together.
func (s *Store) Update(_ context.Context, id string, p UpdateParams) (*models.Note, error) {
	if p.Title == nil && p.Content == nil && p.Tags == nil {
		return nil, apperr.Validationf("update %s: no fields to update", id)
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, apperr.Validationf("update %s: title is required", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note, err := s.getLocked(id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		note.Title = *p.Title
	}
	if p.Content != nil {
		note.Content = *p.Content
	}
	if p.Tags != nil {
		note.Tags = *p.Tags
		if note.Tags == nil {
			note.Tags = []string{}
		}
	}
	now := time.Now()
	// updated_at must strictly increase even if the clock has not ticked.
	if !now.After(note.UpdatedAt) {
		now = note.UpdatedAt.Add(time.Nanosecond)
	}
	note.UpdatedAt = now

	if err := s.writeNote(note); err != nil {
		return nil, fmt.Errorf("update %s: %w", id, err)
	}
	s.entries[id] = note.Entry()
	if err := s.idx.Save(s.entries); err != nil {
		return nil, fmt.Errorf("update %s: %w", id, err)
	}
	return note, nil
}

// Delete removes the note file and its index entry. Deleting an id only one
// side knows about clears the divergence for that id.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, indexed := s.entries[id]
	if !indexed && !s.isFlagged(id) {
		return fmt.Errorf("delete %s: %w", id, apperr.ErrNotFound)
	}

	if err := s.files.Delete(notePath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	delete(s.entries, id)
	if err := s.idx.Save(s.entries); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	s.unflag(id)
	return nil
}

// Search returns the notes whose title or content contains query,
// case-insensitively, in the same order as List. Title matches come from the
// index; content matches read the note files.
func (s *Store) Search(_ context.Context, query string) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.corrupt) > 0 {
		return nil, &apperr.CorruptError{IDs: append([]string(nil), s.corrupt...)}
	}

	q := strings.ToLower(query)

	ordered := make([]models.IndexEntry, 0, len(s.entries))
	for _, e := range s.entries {
		ordered = append(ordered, e)
	}
	index.Sort(ordered)

	var out []SearchResult
	for _, e := range ordered {
		if strings.Contains(strings.ToLower(e.Title), q) {
			out = append(out, SearchResult{IndexEntry: e, Matched: "title"})
			continue
		}
		note, err := s.readNote(e.ID)
		if err != nil {
			return nil, err
		}
		if strings.Contains(strings.ToLower(note.Content), q) {
			out = append(out, SearchResult{IndexEntry: e, Matched: "content"})
		}
	}
	return out, nil
}

// writeNote marshals and atomically writes the note file.
func (s *Store) writeNote(n *models.Note) error {
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal note: %w", err)
	}
	return s.files.Write(notePath(n.ID), append(data, '\n'))
}

// readNote reads and unmarshals a note file, mapping a missing or malformed
// file to a CorruptError for the id.
func (s *Store) readNote(id string) (*models.Note, error) {
	data, err := s.files.Read(notePath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &apperr.CorruptError{IDs: []string{id}}
		}
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	var n models.Note
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, &apperr.CorruptError{IDs: []string{id}}
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return &n, nil
}

func (s *Store) isFlagged(id string) bool {
	for _, c := range s.corrupt {
		if c == id {
			return true
		}
	}
	return false
}

func (s *Store) unflag(id string) {
	for i, c := range s.corrupt {
		if c == id {
			s.corrupt = append(s.corrupt[:i], s.corrupt[i+1:]...)
			return
		}
	}
}

func notePath(id string) string { return id + ".json" }

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
