package notestore

import (
	"fmt"

	"github.com/google/uuid"
)

// newID returns a fresh note id that collides with neither the index nor any
// file on disk. Version-4 UUIDs make a collision astronomically unlikely, and
// ids are never reused after deletion. Caller must hold the write lock.
func (s *Store) newID() (string, error) {
	for range 5 {
		id := uuid.NewString()
		if _, taken := s.entries[id]; taken {
			continue
		}
		exists, err := s.files.Exists(notePath(id))
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("id generation exhausted retries")
}
