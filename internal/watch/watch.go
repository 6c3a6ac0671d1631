// Package watch keeps rescanning the notes base directory: on a cron schedule
// and shortly after Markdown files change. Scans never overlap.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// Scanner runs one full scan.
type Scanner interface {
	Scan(ctx context.Context) error
}

// ScanFunc adapts a function to Scanner.
type ScanFunc func(ctx context.Context) error

// Scan implements Scanner.
func (f ScanFunc) Scan(ctx context.Context) error { return f(ctx) }

// Watcher triggers scans. Create it with New.
type Watcher struct {
	root     string
	schedule string
	debounce time.Duration
	scanner  Scanner
	logger   *slog.Logger
	trigger  chan string
}

// New creates a Watcher over root. An empty schedule disables the cron
// trigger; a zero debounce disables the file-change trigger.
func New(root, schedule string, debounce time.Duration, scanner Scanner, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		root:     root,
		schedule: schedule,
		debounce: debounce,
		scanner:  scanner,
		logger:   logger,
		trigger:  make(chan string, 1),
	}
}

// Trigger requests a scan. Requests arriving while one is pending coalesce.
func (w *Watcher) Trigger(reason string) bool {
	select {
	case w.trigger <- reason:
		return true
	default:
		return false
	}
}

// Run performs an initial scan and then serves triggers until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(w.schedule, func() { w.Trigger("schedule") }); err != nil {
			return fmt.Errorf("watch: schedule %q: %w", w.schedule, err)
		}
		c.Start()
		defer c.Stop()
		w.logger.Info("watch: schedule active", slog.String("schedule", w.schedule))
	}

	if w.debounce <= 0 {
		return w.loop(ctx, nil)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()
	if err := addDirsRecursive(fw, w.root); err != nil {
		return fmt.Errorf("watch: add %s: %w", w.root, err)
	}
	w.logger.Info("watch: file watcher started", slog.String("root", w.root))
	return w.loop(ctx, fw)
}

// loop serves triggers on a single goroutine so scans run one after another.
// fw may be nil when file watching is disabled.
func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) error {
	var events <-chan fsnotify.Event
	var errs <-chan error
	if fw != nil {
		events, errs = fw.Events, fw.Errors
	}

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	w.scan(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch: stopped")
			return nil

		case reason := <-w.trigger:
			w.scan(ctx, reason)

		case <-debounceCh:
			debounceCh = nil
			w.scan(ctx, "files changed")

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addDirsRecursive(fw, ev.Name); err != nil {
						w.logger.Warn("watch: add new dir failed", slog.String("path", ev.Name), slog.String("error", err.Error()))
					}
					continue
				}
			}
			if !relevant(ev) {
				continue
			}
			if debounceTimer == nil {
				debounceTimer = time.NewTimer(w.debounce)
			} else {
				debounceTimer.Reset(w.debounce)
			}
			debounceCh = debounceTimer.C

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Error("watch: error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) scan(ctx context.Context, reason string) {
	w.logger.Info("watch: scanning", slog.String("reason", reason))
	if err := w.scanner.Scan(ctx); err != nil && ctx.Err() == nil {
		w.logger.Error("watch: scan failed", slog.String("reason", reason), slog.String("error", err.Error()))
	}
}

// relevant reports whether ev is a create or write of a Markdown file.
// Temp files from atomic writes are ignored.
func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}
	name := filepath.Base(ev.Name)
	return strings.HasSuffix(name, ".md") && !strings.HasPrefix(name, ".")
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
