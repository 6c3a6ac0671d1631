package selector

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/notetasks/internal/testutil"
)

func newSelector(t *testing.T, files map[string]string, now func() time.Time) (*Selector, string) {
	t.Helper()
	dir, store := testutil.TestBase(t, files)
	return &Selector{Store: store, MaxAgeDays: 7, Now: now, Logger: testutil.Logger()}, dir
}

func names(t *testing.T, s *Selector, subject string) []string {
	t.Helper()
	var out []string
	for _, n := range s.Select(subject) {
		out = append(out, n.Name)
	}
	return out
}

func TestSelect_OldAndRecent(t *testing.T) {
	s, _ := newSelector(t, map[string]string{
		"Math/2025-01-01 notes.md": "viejo",
		"Math/2025-06-10 notes.md": "reciente",
	}, testutil.Clock(2025, time.June, 12))

	got := names(t, s, "Math")
	if len(got) != 1 || got[0] != "2025-06-10 notes.md" {
		t.Errorf("selected = %v, want [2025-06-10 notes.md]", got)
	}
}

func TestSelect_BoundaryIncluded(t *testing.T) {
	midnight := time.Date(2025, time.June, 12, 0, 0, 0, 0, time.Local)
	s, _ := newSelector(t, map[string]string{
		"Math/2025-06-05 limite.md": "x",
		"Math/2025-06-04 fuera.md":  "x",
	}, func() time.Time { return midnight })

	got := names(t, s, "Math")
	if len(got) != 1 || got[0] != "2025-06-05 limite.md" {
		t.Errorf("selected = %v, want [2025-06-05 limite.md]", got)
	}
}

func TestSelect_WindowIsElapsedTime(t *testing.T) {
	s, _ := newSelector(t, map[string]string{
		"Math/2025-06-05 a.md": "x",
		"Math/2025-06-06 b.md": "x",
	}, testutil.Clock(2025, time.June, 12))

	got := names(t, s, "Math")
	if len(got) != 1 || got[0] != "2025-06-06 b.md" {
		t.Errorf("selected = %v, want [2025-06-06 b.md]", got)
	}
}

func TestSelect_FutureDateAccepted(t *testing.T) {
	s, _ := newSelector(t, map[string]string{
		"Math/2025-07-01 plan.md": "x",
	}, testutil.Clock(2025, time.June, 12))

	if got := names(t, s, "Math"); len(got) != 1 {
		t.Errorf("selected = %v, want the future-dated note", got)
	}
}

func TestSelect_NameRules(t *testing.T) {
	s, _ := newSelector(t, map[string]string{
		"Math/notes.md":              "no date",
		"Math/2025-06-10 notes.txt":  "wrong ext",
		"Math/2025-02-30 notes.md":   "invalid date",
		"Math/2025-13-01 notes.md":   "invalid month",
		"Math/clase 2025-06-11.md":   "date anywhere",
		"Math/2025-06-11.md.bak":     "suffix",
		"Math/2025-06-11/nested.md":  "dir entry",
	}, testutil.Clock(2025, time.June, 12))

	got := names(t, s, "Math")
	if len(got) != 1 || got[0] != "clase 2025-06-11.md" {
		t.Errorf("selected = %v, want [clase 2025-06-11.md]", got)
	}
}

func TestSelect_MarkerExcludes(t *testing.T) {
	s, _ := newSelector(t, map[string]string{
		"Math/2025-06-10 a.md": "---\nprocesado_por_ia: true\n---\n\ncontenido",
		"Math/2025-06-11 b.md": "nota con procesado_por_ia: true en el texto",
		"Math/2025-06-11 c.md": "pendiente",
	}, testutil.Clock(2025, time.June, 12))

	got := names(t, s, "Math")
	if len(got) != 1 || got[0] != "2025-06-11 c.md" {
		t.Errorf("selected = %v, want [2025-06-11 c.md]", got)
	}
}

func TestSelect_UnreadableExcluded(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	s, dir := newSelector(t, map[string]string{
		"Math/2025-06-11 locked.md": "x",
	}, testutil.Clock(2025, time.June, 12))
	if err := os.Chmod(filepath.Join(dir, "Math", "2025-06-11 locked.md"), 0o000); err != nil {
		t.Fatal(err)
	}

	if got := names(t, s, "Math"); len(got) != 0 {
		t.Errorf("selected = %v, want none", got)
	}
}

func TestSelect_MissingSubject(t *testing.T) {
	s, _ := newSelector(t, nil, testutil.Clock(2025, time.June, 12))
	if got := s.Select("Nada"); got != nil {
		t.Errorf("selected = %v, want nil", got)
	}
}

func TestNoteDate_FirstMatch(t *testing.T) {
	d, ok := NoteDate("2025-06-10 repaso 2025-06-01.md", time.UTC)
	if !ok {
		t.Fatal("expected a date")
	}
	if d.Format(dateLayout) != "2025-06-10" {
		t.Errorf("date = %s, want 2025-06-10", d.Format(dateLayout))
	}
}

func TestRecent(t *testing.T) {
	day := func(s string) time.Time {
		d, _ := time.ParseInLocation(dateLayout, s, time.UTC)
		return d
	}
	midnight := time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		date string
		now  time.Time
		want bool
	}{
		{"2025-06-12", midnight.Add(23*time.Hour + 59*time.Minute), true},
		{"2025-06-05", midnight, true},
		{"2025-06-05", midnight.Add(time.Nanosecond), false},
		{"2025-06-05", midnight.Add(10 * time.Hour), false},
		{"2025-06-06", midnight.Add(23*time.Hour + 59*time.Minute), true},
		{"2025-06-04", midnight, false},
		{"2026-01-01", midnight, true},
	}
	for _, c := range cases {
		if got := Recent(day(c.date), c.now, 7); got != c.want {
			t.Errorf("Recent(%s, %s) = %v, want %v", c.date, c.now.Format(time.RFC3339Nano), got, c.want)
		}
	}
}
