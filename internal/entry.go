// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/notetasks/internal/api"
	"github.com/starford/notetasks/internal/apperr"
	"github.com/starford/notetasks/internal/journal"
	"github.com/starford/notetasks/internal/llm"
	"github.com/starford/notetasks/internal/mcpserver"
	"github.com/starford/notetasks/internal/scan"
	"github.com/starford/notetasks/internal/selector"
	"github.com/starford/notetasks/internal/storage"
	"github.com/starford/notetasks/internal/summarizer"
	"github.com/starford/notetasks/internal/watch"
)

// Version is reported by the MCP server.
var Version = "dev"

func newApplication(opts []Option) (*application, error) {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.out == nil {
		app.out = os.Stdout
	}
	if app.logOut == nil {
		app.logOut = os.Stderr
	}
	return app, nil
}

// logger builds the structured JSON logger. Logs never go to stdout, which
// carries the report or the MCP stream.
func (a *application) logger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logOut, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func (a *application) chatClient(ctx context.Context) (llm.ChatClient, error) {
	if a.client != nil {
		return a.client, nil
	}
	c, err := llm.New(ctx, a.config.LLM.Options())
	if err != nil {
		return nil, fmt.Errorf("init llm: %w", err)
	}
	return c, nil
}

// openJournal returns nil when the journal is disabled.
func (a *application) openJournal() (*journal.DB, error) {
	if !a.config.Journal.Enabled() {
		return nil, nil
	}
	if dir := filepath.Dir(a.config.Journal.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	db, err := journal.Open(a.config.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}
	return db, nil
}

func (a *application) driver(client llm.ChatClient, db *journal.DB, logger *slog.Logger) *scan.Driver {
	cfg := a.config
	d := &scan.Driver{
		Config: scan.Config{
			BaseDir:    cfg.Notes.BaseDir,
			MaxAgeDays: cfg.Notes.MaxAgeDays,
			DryRun:     cfg.Notes.DryRun,
			Model:      cfg.LLM.ModelName(),
		},
		Client: client,
		Out:    a.out,
		Now:    a.now,
		Logger: logger,
	}
	if db != nil {
		d.Recorder = db
	}
	return d
}

// Run performs one scan of the notes directory and prints the report.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("base_dir", cfg.Notes.BaseDir),
		slog.String("provider", cfg.LLM.Provider),
		slog.String("model", cfg.LLM.ModelName()),
		slog.String("journal_path", cfg.Journal.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	client, err := app.chatClient(ctx)
	if err != nil {
		return err
	}

	db, err := app.openJournal()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	if _, err := app.driver(client, db, logger).Run(ctx); err != nil {
		return err
	}
	return nil
}

// Watch scans once, then keeps rescanning on the configured schedule and
// whenever notes change, until a shutdown signal arrives. The status API is
// served when app.http.port is set.
func Watch(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	if err := scan.CheckBaseDir(app.out, cfg.Notes.BaseDir); err != nil {
		return err
	}

	client, err := app.chatClient(ctx)
	if err != nil {
		return err
	}

	db, err := app.openJournal()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	drv := app.driver(client, db, logger)
	watcher := watch.New(cfg.Notes.BaseDir, cfg.Watch.Schedule, cfg.Watch.Debounce,
		watch.ScanFunc(func(ctx context.Context) error {
			_, err := drv.Run(ctx)
			return err
		}), logger)

	var httpServer *http.Server
	if cfg.App.HTTP.Enabled() {
		h := &api.Handler{Trigger: watcher.Trigger}
		if db != nil {
			h.Runs = db
		}
		httpServer = &http.Server{
			Addr:              cfg.App.HTTP.Address(),
			Handler:           api.NewRouter(h),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watcher.Run(gCtx)
	})

	if httpServer != nil {
		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("address", httpServer.Addr))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}
		cancel()

		if httpServer != nil {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelShutdown()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Watch stopped")
	return nil
}

// ServeMCP exposes the selector and summarizer over MCP on stdio.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	if err := scan.CheckBaseDir(os.Stderr, cfg.Notes.BaseDir); err != nil {
		return err
	}

	client, err := app.chatClient(ctx)
	if err != nil {
		return err
	}

	store, err := storage.NewFS(cfg.Notes.BaseDir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	sel := &selector.Selector{Store: store, MaxAgeDays: cfg.Notes.MaxAgeDays, Now: app.now, Logger: logger}
	sum := &summarizer.Summarizer{Store: store, Client: client, Model: cfg.LLM.ModelName(), Now: app.now, Logger: logger}

	logger.Info("MCP server starting on stdio", slog.String("base_dir", cfg.Notes.BaseDir))
	return mcpserver.New(store, sel, sum, Version).ServeStdio()
}

// History prints the most recent journaled runs, newest first.
func History(_ context.Context, limit int, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	app.logger()

	db, err := app.openJournal()
	if err != nil {
		return err
	}
	if db == nil {
		return apperr.ErrJournalDisabled
	}
	defer db.Close()

	runs, err := db.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(app.out, "No hay ejecuciones registradas.")
		return nil
	}

	tw := tabwriter.NewWriter(app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tINICIO\tDIRECTORIO\tAPUNTES\tFALLOS\tPRUEBA")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.BaseDir, r.Notes, r.Failures, yesNo(r.DryRun))
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}
