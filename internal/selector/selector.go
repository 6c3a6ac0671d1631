// Package selector decides which notes in a subject directory are due for
// task extraction: dated Markdown files inside the recency window that do not
// carry the processed marker yet.
package selector

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/starford/notetasks/internal/frontmatter"
	"github.com/starford/notetasks/internal/models"
	"github.com/starford/notetasks/internal/storage"
)

// Ext is the only file extension considered a note.
const Ext = ".md"

const dateLayout = "2006-01-02"

var dateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Selector filters subject directories. Now defaults to time.Now.
type Selector struct {
	Store      storage.Provider
	MaxAgeDays int
	Now        func() time.Time
	Logger     *slog.Logger
}

// NoteDate extracts the first embedded YYYY-MM-DD date from name, interpreted
// as midnight in loc.
func NoteDate(name string, loc *time.Location) (time.Time, bool) {
	m := dateRe.FindString(name)
	if m == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(dateLayout, m, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Recent reports whether at most maxAgeDays days have elapsed between date
// and now. An age equal to the window is recent, and so are future dates.
func Recent(date, now time.Time, maxAgeDays int) bool {
	return now.Sub(date) <= time.Duration(maxAgeDays)*24*time.Hour
}

// Select returns the eligible notes in subject in name order.
// Read failures and malformed names exclude a file without an error.
func (s *Selector) Select(subject string) []models.Note {
	entries, err := s.Store.Entries(subject)
	if err != nil {
		s.logger().Debug("select: list failed", slog.String("subject", subject), slog.String("error", err.Error()))
		return nil
	}

	now := s.now()
	var out []models.Note
	for _, e := range entries {
		note, ok := s.eligible(subject, e, now)
		if ok {
			out = append(out, note)
		}
	}
	return out
}

func (s *Selector) eligible(subject string, e models.Entry, now time.Time) (models.Note, bool) {
	if !e.Regular || !strings.HasSuffix(e.Name, Ext) {
		return models.Note{}, false
	}
	date, ok := NoteDate(e.Name, now.Location())
	if !ok || !Recent(date, now, s.MaxAgeDays) {
		return models.Note{}, false
	}
	data, err := s.Store.Read(e.Path)
	if err != nil {
		s.logger().Debug("select: read failed", slog.String("path", e.Path), slog.String("error", err.Error()))
		return models.Note{}, false
	}
	if frontmatter.HasMarker(data) {
		return models.Note{}, false
	}
	return models.Note{
		Subject:  subject,
		Name:     e.Name,
		Path:     e.Path,
		Date:     date,
		Checksum: checksum(data),
	}, true
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func (s *Selector) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Selector) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
