// Package apperr holds the sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrBaseDirNotFound = errors.New("base directory not found")
	ErrNoteNotFound    = errors.New("note not found")
	ErrJournalDisabled = errors.New("journal disabled")
	ErrUnknownProvider = errors.New("unknown llm provider")
)
