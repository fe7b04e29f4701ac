// Package apperr defines the error taxonomy shared by all store surfaces.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the referenced note id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates caller-supplied input violates a constraint.
	ErrValidation = errors.New("invalid input")
	// ErrCorrupt indicates the index and the note files have diverged.
	ErrCorrupt = errors.New("store is corrupt")
)

// CorruptError reports which ids are affected by an index/file divergence.
// It matches ErrCorrupt under errors.Is.
type CorruptError struct {
	// IDs of index entries whose backing file is missing or unreadable,
	// plus ids of note files that have no index entry.
	IDs []string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("store is corrupt: affected ids: %s", strings.Join(e.IDs, ", "))
}

func (e *CorruptError) Unwrap() error { return ErrCorrupt }

// Validationf returns a formatted error matching ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}
