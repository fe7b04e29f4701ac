// Package index maintains the denormalized note index file.
//
// The index maps note id to a summary entry and lives as index.json in the
// store directory. It is a derived cache: per-note files are the source of
// truth and the index must be rewritten after every mutation.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// FileName is the name of the index file inside the store directory.
const FileName = "index.json"

// File reads and writes the index through a storage provider.
type File struct {
	store storage.Provider
}

// New creates an index file handle over the given provider.
func New(store storage.Provider) *File {
	return &File{store: store}
}

// Load reads the index from disk. A missing index is initialized to an empty
// mapping and written back, so the file always exists after the first load.
func (f *File) Load() (map[string]models.IndexEntry, error) {
	data, err := f.store.Read(FileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			empty := map[string]models.IndexEntry{}
			if err := f.Save(empty); err != nil {
				return nil, err
			}
			return empty, nil
		}
		return nil, fmt.Errorf("index: load: %w", err)
	}

	entries := map[string]models.IndexEntry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("index: malformed %s: %v: %w", FileName, err, apperr.ErrCorrupt)
	}
	return entries, nil
}

// Save writes the full mapping back to disk atomically.
func (f *File) Save(entries map[string]models.IndexEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("index: marshal: %w", err)
	}
	if err := f.store.Write(FileName, append(data, '\n')); err != nil {
		return fmt.Errorf("index: save: %w", err)
	}
	return nil
}

// Sort orders entries by updated_at descending, breaking ties by id
// ascending. This is the documented ordering for list and search.
func Sort(entries []models.IndexEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}
