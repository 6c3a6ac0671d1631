// Package models defines the domain types shared by the scanner packages.
package models

import "time"

// Note is a dated Markdown note selected for processing.
type Note struct {
	Subject  string    `json:"subject"`
	Name     string    `json:"name"`
	Path     string    `json:"path"` // relative to the base directory
	Date     time.Time `json:"date"`
	Checksum string    `json:"checksum"` // SHA-256 of the content seen at selection time
}

// Entry is a directory entry inside a subject directory.
type Entry struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Regular bool   `json:"regular"`
}

// Block is one per-note section of the final report.
type Block struct {
	Subject  string `json:"subject"`
	Filename string `json:"filename"`
	Summary  string `json:"summary"`
}
