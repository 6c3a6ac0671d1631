// Package storage defines the file-system abstraction over the notes base directory.
package storage

import "github.com/starford/notetasks/internal/models"

// Provider is the interface for base directory file operations.
// All paths are relative to the base directory.
type Provider interface {
	// Root returns the absolute base directory.
	Root() string
	// Subjects returns the names of the immediate subdirectories, sorted.
	Subjects() ([]string, error)
	// Entries returns the entries directly inside subject, sorted by name.
	Entries(subject string) ([]models.Entry, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
}
