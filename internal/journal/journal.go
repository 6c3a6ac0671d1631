package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("journal: run not found")

// Run is one scan of the base directory.
type Run struct {
	ID         int64      `json:"id"`
	BaseDir    string     `json:"base_dir"`
	DryRun     bool       `json:"dry_run"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Notes      int        `json:"notes"`
	Failures   int        `json:"failures"`
}

// Outcome records what happened to one note during a run.
type Outcome struct {
	RunID     int64     `json:"run_id"`
	Subject   string    `json:"subject"`
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Kind      string    `json:"kind"`
	Stamped   bool      `json:"stamped"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BeginRun inserts a new run and returns its id.
func (db *DB) BeginRun(baseDir string, dryRun bool, at time.Time) (int64, error) {
	res, err := db.conn.Exec(`INSERT INTO runs (base_dir, dry_run, started_at) VALUES (?, ?, ?)`,
		baseDir, dryRun, at.UTC())
	if err != nil {
		return 0, fmt.Errorf("journal: begin run: %w", err)
	}
	return res.LastInsertId()
}

// RecordOutcome appends a note outcome to its run.
func (db *DB) RecordOutcome(o Outcome) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	_, err := db.conn.Exec(`
		INSERT INTO outcomes (run_id, subject, path, checksum, kind, stamped, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, o.RunID, o.Subject, o.Path, o.Checksum, o.Kind, o.Stamped, o.Error, o.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("journal: record outcome: %w", err)
	}
	return nil
}

// FinishRun closes a run with its totals.
func (db *DB) FinishRun(id int64, notes, failures int, at time.Time) error {
	_, err := db.conn.Exec(`UPDATE runs SET finished_at = ?, notes = ?, failures = ? WHERE id = ?`,
		at.UTC(), notes, failures, id)
	if err != nil {
		return fmt.Errorf("journal: finish run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, base_dir, dry_run, started_at, finished_at, notes, failures
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: recent runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// GetRun returns a single run.
func (db *DB) GetRun(id int64) (*Run, error) {
	row := db.conn.QueryRow(`
		SELECT id, base_dir, dry_run, started_at, finished_at, notes, failures
		FROM runs WHERE id = ?
	`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return r, err
}

// Outcomes returns the outcomes of a run in insertion order.
func (db *DB) Outcomes(runID int64) ([]Outcome, error) {
	rows, err := db.conn.Query(`
		SELECT run_id, subject, path, checksum, kind, stamped, error, created_at
		FROM outcomes WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("journal: outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var o Outcome
		if err := rows.Scan(&o.RunID, &o.Subject, &o.Path, &o.Checksum, &o.Kind, &o.Stamped, &o.Error, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("journal: scan outcome: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*Run, error) {
	var r Run
	var finished sql.NullTime
	if err := s.Scan(&r.ID, &r.BaseDir, &r.DryRun, &r.StartedAt, &finished, &r.Notes, &r.Failures); err != nil {
		return nil, err
	}
	if finished.Valid {
		t := finished.Time
		r.FinishedAt = &t
	}
	return &r, nil
}
