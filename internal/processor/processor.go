// Package processor runs task extraction on a selected note and stamps it
// with the processed marker.
package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/notetasks/internal/frontmatter"
	"github.com/starford/notetasks/internal/models"
	"github.com/starford/notetasks/internal/storage"
	"github.com/starford/notetasks/internal/summarizer"
)

// Summarizer is the subset of summarizer.Summarizer the processor needs.
type Summarizer interface {
	Summarize(ctx context.Context, path, subject string) summarizer.Result
}

// Outcome is the result of processing one note.
type Outcome struct {
	Note     models.Note
	Result   summarizer.Result
	Stamped  bool
	StampErr error
}

// Processor summarizes notes and, unless DryRun is set, prepends the
// processed marker block to them.
type Processor struct {
	Store      storage.Provider
	Summarizer Summarizer
	DryRun     bool
	Out        io.Writer
	Logger     *slog.Logger
}

// Process summarizes note and stamps it. A failed stamp is reported but the
// summary is still returned.
func (p *Processor) Process(ctx context.Context, note models.Note) Outcome {
	fmt.Fprintf(p.out(), "Procesando: %s...\n", note.Name)

	out := Outcome{Note: note}
	out.Result = p.Summarizer.Summarize(ctx, note.Path, note.Subject)

	if p.DryRun {
		p.logger().Debug("process: dry run, not stamping", slog.String("path", note.Path))
		return out
	}

	if err := p.stamp(note.Path); err != nil {
		out.StampErr = err
		fmt.Fprintln(p.out(), err)
		p.logger().Warn("process: stamp failed",
			slog.String("path", note.Path),
			slog.String("error", err.Error()))
		return out
	}
	out.Stamped = true
	p.logger().Debug("process: stamped", slog.String("path", note.Path))
	return out
}

// stamp re-reads the note so the rewrite preserves whatever is on disk now.
func (p *Processor) stamp(path string) error {
	original, err := p.Store.Read(path)
	if err != nil {
		return err
	}
	return p.Store.Write(path, frontmatter.Stamp(original))
}

func (p *Processor) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return io.Discard
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
