// Package scan walks the subject directories under the base directory and
// turns recent, unprocessed notes into the consolidated task report.
package scan

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/starford/notetasks/internal/apperr"
	"github.com/starford/notetasks/internal/journal"
	"github.com/starford/notetasks/internal/llm"
	"github.com/starford/notetasks/internal/models"
	"github.com/starford/notetasks/internal/processor"
	"github.com/starford/notetasks/internal/report"
	"github.com/starford/notetasks/internal/selector"
	"github.com/starford/notetasks/internal/storage"
	"github.com/starford/notetasks/internal/summarizer"
)

// Config is the per-run configuration of the Driver.
type Config struct {
	BaseDir    string
	MaxAgeDays int
	DryRun     bool
	Model      string
}

// Recorder is the part of the journal the driver writes to.
type Recorder interface {
	BeginRun(baseDir string, dryRun bool, at time.Time) (int64, error)
	RecordOutcome(o journal.Outcome) error
	FinishRun(id int64, notes, failures int, at time.Time) error
}

// Summary is what a run produced.
type Summary struct {
	Blocks   []models.Block
	Outcomes []processor.Outcome
	Failures int
}

// Driver runs one scan at a time. Recorder, Out, Now and Logger are optional.
type Driver struct {
	Config   Config
	Client   llm.ChatClient
	Recorder Recorder
	Out      io.Writer
	Now      func() time.Time
	Logger   *slog.Logger
}

// Run scans every subject directory once and prints the report.
// It fails only when the base directory is missing or ctx is cancelled.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	cfg := d.Config
	out := d.out()
	logger := d.logger()

	if err := CheckBaseDir(out, cfg.BaseDir); err != nil {
		return nil, err
	}

	store, err := storage.NewFS(cfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	subjects, err := store.Subjects()
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	sel := &selector.Selector{Store: store, MaxAgeDays: cfg.MaxAgeDays, Now: d.Now, Logger: logger}
	proc := &processor.Processor{
		Store: store,
		Summarizer: &summarizer.Summarizer{
			Store:  store,
			Client: d.Client,
			Model:  cfg.Model,
			Now:    d.Now,
			Logger: logger,
		},
		DryRun: cfg.DryRun,
		Out:    out,
		Logger: logger,
	}

	runID := d.beginRun(cfg)
	logger.Info("scan: started",
		slog.String("base_dir", cfg.BaseDir),
		slog.Int("subjects", len(subjects)),
		slog.Int("max_age_days", cfg.MaxAgeDays),
		slog.Bool("dry_run", cfg.DryRun))

	sum := &Summary{}
	for _, subject := range subjects {
		fmt.Fprintf(out, "Escaneando materia: %s\n", subject)

		notes := sel.Select(subject)
		if len(notes) == 0 {
			fmt.Fprint(out, "No hay apuntes nuevos para procesar.\n\n")
			continue
		}

		for _, note := range notes {
			if err := ctx.Err(); err != nil {
				d.finishRun(runID, sum)
				return sum, err
			}
			o := proc.Process(ctx, note)
			sum.Outcomes = append(sum.Outcomes, o)
			if o.Result.Kind == summarizer.KindFailed {
				sum.Failures++
			}
			sum.Blocks = append(sum.Blocks, models.Block{
				Subject:  subject,
				Filename: note.Name,
				Summary:  o.Result.String(),
			})
			d.record(runID, o)
		}
	}

	if err := report.Print(out, sum.Blocks, cfg.BaseDir); err != nil {
		logger.Warn("scan: print report failed", slog.String("error", err.Error()))
	}

	d.finishRun(runID, sum)
	logger.Info("scan: finished",
		slog.Int("notes", len(sum.Outcomes)),
		slog.Int("failures", sum.Failures))
	return sum, nil
}

// CheckBaseDir reports apperr.ErrBaseDirNotFound, and tells the user on w,
// when dir is not an existing directory.
func CheckBaseDir(w io.Writer, dir string) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		fmt.Fprintf(w, "Error: El directorio base '%s' no fue encontrado.\n", dir)
		return fmt.Errorf("scan: %w: %s", apperr.ErrBaseDirNotFound, dir)
	}
	return nil
}

func (d *Driver) beginRun(cfg Config) int64 {
	if d.Recorder == nil {
		return 0
	}
	id, err := d.Recorder.BeginRun(cfg.BaseDir, cfg.DryRun, d.now())
	if err != nil {
		d.logger().Warn("scan: journal begin failed", slog.String("error", err.Error()))
		return 0
	}
	return id
}

func (d *Driver) record(runID int64, o processor.Outcome) {
	if d.Recorder == nil || runID == 0 {
		return
	}
	entry := journal.Outcome{
		RunID:     runID,
		Subject:   o.Note.Subject,
		Path:      o.Note.Path,
		Checksum:  o.Note.Checksum,
		Kind:      o.Result.Kind.String(),
		Stamped:   o.Stamped,
		CreatedAt: d.now(),
	}
	if o.Result.Err != nil {
		entry.Error = o.Result.Err.Error()
	} else if o.StampErr != nil {
		entry.Error = o.StampErr.Error()
	}
	if err := d.Recorder.RecordOutcome(entry); err != nil {
		d.logger().Warn("scan: journal record failed", slog.String("path", o.Note.Path), slog.String("error", err.Error()))
	}
}

func (d *Driver) finishRun(runID int64, sum *Summary) {
	if d.Recorder == nil || runID == 0 {
		return
	}
	if err := d.Recorder.FinishRun(runID, len(sum.Outcomes), sum.Failures, d.now()); err != nil {
		d.logger().Warn("scan: journal finish failed", slog.String("error", err.Error()))
	}
}

func (d *Driver) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Driver) out() io.Writer {
	if d.Out != nil {
		return d.Out
	}
	return os.Stdout
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
