package processor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/notetasks/internal/models"
	"github.com/starford/notetasks/internal/summarizer"
	"github.com/starford/notetasks/internal/testutil"
)

const noteBody = "# Redes\n\nTarea para el viernes:\nInvestigar sobre OSPF.\n"

func newProcessor(t *testing.T, chat *testutil.FakeChat, dryRun bool) (*Processor, string, *bytes.Buffer) {
	t.Helper()
	dir, store := testutil.TestBase(t, map[string]string{"Redes/2025-06-11 clase.md": noteBody})
	var out bytes.Buffer
	p := &Processor{
		Store: store,
		Summarizer: &summarizer.Summarizer{
			Store:  store,
			Client: chat,
			Model:  "m",
			Now:    testutil.Clock(2025, time.June, 12),
			Logger: testutil.Logger(),
		},
		DryRun: dryRun,
		Out:    &out,
		Logger: testutil.Logger(),
	}
	return p, dir, &out
}

var note = models.Note{Subject: "Redes", Name: "2025-06-11 clase.md", Path: filepath.Join("Redes", "2025-06-11 clase.md")}

func TestProcess_StampsMarkerBeforeOriginal(t *testing.T) {
	chat := &testutil.FakeChat{Reply: "- [ ] @{2025-06-13} / Redes / Investigar sobre OSPF"}
	p, dir, out := newProcessor(t, chat, false)

	o := p.Process(context.Background(), note)
	if !o.Stamped || o.StampErr != nil {
		t.Fatalf("outcome = %+v", o)
	}
	if o.Result.String() != chat.Reply {
		t.Errorf("summary = %q", o.Result.String())
	}

	got, err := os.ReadFile(filepath.Join(dir, note.Path))
	if err != nil {
		t.Fatal(err)
	}
	want := "---\nprocesado_por_ia: true\n---\n\n" + noteBody
	if string(got) != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if !strings.Contains(out.String(), "Procesando: 2025-06-11 clase.md...") {
		t.Errorf("progress output = %q", out.String())
	}
}

func TestProcess_DryRunLeavesFileUntouched(t *testing.T) {
	chat := &testutil.FakeChat{Reply: "None"}
	p, dir, _ := newProcessor(t, chat, true)

	o := p.Process(context.Background(), note)
	if o.Stamped {
		t.Error("dry run should not stamp")
	}
	got, _ := os.ReadFile(filepath.Join(dir, note.Path))
	if string(got) != noteBody {
		t.Errorf("file changed in dry run: %q", got)
	}
}

func TestProcess_StampsEvenWhenSummaryFails(t *testing.T) {
	chat := &testutil.FakeChat{Err: errors.New("timeout")}
	p, dir, _ := newProcessor(t, chat, false)

	o := p.Process(context.Background(), note)
	if o.Result.Kind != summarizer.KindFailed {
		t.Errorf("kind = %s, want failed", o.Result.Kind)
	}
	if !o.Stamped {
		t.Error("note should be stamped regardless of the summary outcome")
	}
	got, _ := os.ReadFile(filepath.Join(dir, note.Path))
	if !strings.HasPrefix(string(got), "---\nprocesado_por_ia: true\n---\n\n") {
		t.Errorf("file = %q", got)
	}
}

func TestProcess_StampFailureKeepsSummary(t *testing.T) {
	chat := &testutil.FakeChat{Reply: "- [ ] @{2025-06-13} / Redes / OSPF"}
	p, dir, out := newProcessor(t, chat, false)

	// The summary is produced first; removing the file afterwards makes the
	// re-read fail during stamping.
	p.Summarizer = summarizeThen(p.Summarizer, func() {
		_ = os.Remove(filepath.Join(dir, note.Path))
	})

	o := p.Process(context.Background(), note)
	if o.StampErr == nil || o.Stamped {
		t.Fatalf("expected a stamp error, got %+v", o)
	}
	if o.Result.String() != chat.Reply {
		t.Errorf("summary lost: %q", o.Result.String())
	}
	if !strings.Contains(out.String(), "storage: read") {
		t.Errorf("stamp error not printed: %q", out.String())
	}
}

type summarizeFunc func(ctx context.Context, path, subject string) summarizer.Result

func (f summarizeFunc) Summarize(ctx context.Context, path, subject string) summarizer.Result {
	return f(ctx, path, subject)
}

func summarizeThen(s Summarizer, after func()) Summarizer {
	return summarizeFunc(func(ctx context.Context, path, subject string) summarizer.Result {
		res := s.Summarize(ctx, path, subject)
		after()
		return res
	})
}
