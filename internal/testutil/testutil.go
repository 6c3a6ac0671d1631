// Package testutil provides shared test helpers for notes directories and chat clients.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/notetasks/internal/llm"
	"github.com/starford/notetasks/internal/storage"
)

// TestBase creates a temporary base directory populated with files
// (relative path → content) and returns it with a storage.Provider.
func TestBase(t *testing.T, files map[string]string) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Logger returns a logger that discards everything below error level.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Clock returns a fixed clock for the given local date at 10:00.
func Clock(year int, month time.Month, day int) func() time.Time {
	t := time.Date(year, month, day, 10, 0, 0, 0, time.Local)
	return func() time.Time { return t }
}

// Call records one ChatClient invocation.
type Call struct {
	Model    string
	Messages []llm.Message
}

// FakeChat is a ChatClient that returns a canned reply and records calls.
type FakeChat struct {
	Reply string
	Err   error

	mu    sync.Mutex
	calls []Call
}

// Chat implements llm.ChatClient.
func (f *FakeChat) Chat(_ context.Context, model string, messages []llm.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Model: model, Messages: append([]llm.Message(nil), messages...)})
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

// Calls returns a copy of the recorded calls.
func (f *FakeChat) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}
