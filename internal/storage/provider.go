// Package storage defines the store-directory file abstraction.
package storage

// Provider is the interface for store file operations. Paths are always
// relative to the store root.
type Provider interface {
	// List returns the names of every .json record in the store root.
	List() ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Exists reports whether a file exists at path.
	Exists(path string) (bool, error)
}
