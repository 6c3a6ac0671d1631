// Package summarizer asks the chat model for the task list contained in a note.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/notetasks/internal/apperr"
	"github.com/starford/notetasks/internal/llm"
	"github.com/starford/notetasks/internal/storage"
)

// Kind tags a Result.
type Kind int

const (
	// KindTasks means the model returned a task list.
	KindTasks Kind = iota
	// KindNone means the note is empty or the model found no tasks.
	KindNone
	// KindFailed means the note could not be summarized.
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindTasks:
		return "tasks"
	case KindNone:
		return "none"
	default:
		return "failed"
	}
}

// Result is the outcome of one summarization.
type Result struct {
	Kind Kind
	Text string
	Path string // absolute path of the note
	Err  error
}

// String renders the result as report text. Failures become a readable
// message instead of an error.
func (r Result) String() string {
	if r.Kind != KindFailed {
		return r.Text
	}
	if errors.Is(r.Err, apperr.ErrNoteNotFound) {
		return fmt.Sprintf("Error: El archivo '%s' no fue encontrado.", r.Path)
	}
	return fmt.Sprintf("Ha ocurrido un error.\nDetalle del error: %v", r.Err)
}

// Summarizer extracts task lists from notes. Now defaults to time.Now.
type Summarizer struct {
	Store  storage.Provider
	Client llm.ChatClient
	Model  string
	Now    func() time.Time
	Logger *slog.Logger
}

// Summarize reads the note at path (relative to the base directory) and
// returns the model's task list for it. It never panics or returns an error.
func (s *Summarizer) Summarize(ctx context.Context, path, subject string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(filepath.Join(s.Store.Root(), path), fmt.Errorf("panic: %v", r))
		}
	}()

	full := filepath.Join(s.Store.Root(), path)
	data, err := s.Store.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return failed(full, fmt.Errorf("%w: %s", apperr.ErrNoteNotFound, path))
		}
		return failed(full, err)
	}

	content := string(data)
	if strings.TrimSpace(content) == "" {
		return Result{Kind: KindNone, Text: NoTasks, Path: full}
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	msgs := Messages(subject, filepath.Base(path), content, now)
	start := time.Now()
	reply, err := s.Client.Chat(ctx, s.Model, msgs)
	if err != nil {
		s.logger().Warn("summarize: chat failed",
			slog.String("path", path),
			slog.String("model", s.Model),
			slog.String("error", err.Error()))
		return failed(full, err)
	}
	s.logger().Debug("summarize: reply",
		slog.String("path", path),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("chars", len(reply)))

	kind := KindTasks
	if strings.TrimSpace(reply) == NoTasks {
		kind = KindNone
	}
	return Result{Kind: kind, Text: reply, Path: full}
}

func failed(path string, err error) Result {
	return Result{Kind: KindFailed, Path: path, Err: err}
}

func (s *Summarizer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
