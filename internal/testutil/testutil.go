// Package testutil provides shared test helpers for setting up note stores.
package testutil

import (
	"testing"

	"github.com/starford/ansuz/internal/notestore"
)

// TestStore creates a note store in a temporary directory that is
// automatically cleaned up. It returns the directory as well so tests can
// poke at the files out-of-band.
func TestStore(t *testing.T) (string, *notestore.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := notestore.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return dir, store
}
