package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func counter() (*atomic.Int32, Scanner) {
	var n atomic.Int32
	return &n, ScanFunc(func(context.Context) error {
		n.Add(1)
		return nil
	})
}

func TestWatcher_InitialScanAndTrigger(t *testing.T) {
	n, scanner := counter()
	w := New(t.TempDir(), "", 0, scanner, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	eventually(t, 2*time.Second, 10*time.Millisecond, func() bool { return n.Load() == 1 }, "initial scan did not run")

	w.Trigger("manual")
	eventually(t, 2*time.Second, 10*time.Millisecond, func() bool { return n.Load() == 2 }, "triggered scan did not run")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_FileChangeTriggersScan(t *testing.T) {
	root := t.TempDir()
	subject := filepath.Join(root, "Redes")
	if err := os.MkdirAll(subject, 0o755); err != nil {
		t.Fatal(err)
	}
	n, scanner := counter()
	w := New(root, "", 50*time.Millisecond, scanner, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	eventually(t, 2*time.Second, 10*time.Millisecond, func() bool { return n.Load() == 1 }, "initial scan did not run")

	_ = os.WriteFile(filepath.Join(subject, "2025-06-12 clase.md"), []byte("Configurar VLAN"), 0o644)
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool { return n.Load() >= 2 }, "file change did not trigger a scan")
}

func TestWatcher_IgnoresNonMarkdown(t *testing.T) {
	root := t.TempDir()
	n, scanner := counter()
	w := New(root, "", 30*time.Millisecond, scanner, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	eventually(t, 2*time.Second, 10*time.Millisecond, func() bool { return n.Load() == 1 }, "initial scan did not run")
	_ = os.WriteFile(filepath.Join(root, "foto.png"), []byte("png"), 0o644)
	time.Sleep(300 * time.Millisecond)
	if got := n.Load(); got != 1 {
		t.Errorf("scans = %d, want 1", got)
	}
}

func TestWatcher_InvalidSchedule(t *testing.T) {
	_, scanner := counter()
	w := New(t.TempDir(), "every so often", 0, scanner, quietLogger())
	if err := w.Run(context.Background()); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestTrigger_Coalesces(t *testing.T) {
	_, scanner := counter()
	w := New(t.TempDir(), "", 0, scanner, quietLogger())
	if !w.Trigger("a") {
		t.Fatal("first trigger should be queued")
	}
	if w.Trigger("b") {
		t.Error("second trigger should coalesce with the pending one")
	}
}
