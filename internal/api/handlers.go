package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notetasks/internal/journal"
)

// RunReader is the read side of the journal.
type RunReader interface {
	RecentRuns(limit int) ([]journal.Run, error)
	GetRun(id int64) (*journal.Run, error)
	Outcomes(runID int64) ([]journal.Outcome, error)
}

// Handler holds API route handlers. Runs may be nil when the journal is
// disabled; Trigger queues a rescan and reports whether it was accepted.
type Handler struct {
	Runs    RunReader
	Trigger func(reason string) bool
}

// RunDetail is a run with its note outcomes.
type RunDetail struct {
	journal.Run
	Outcomes []journal.Outcome `json:"outcomes"`
}

// Live handles GET /health/live.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready.
func (h *Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"journal": h.Runs != nil,
	})
}

// ListRuns handles GET /api/runs.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.Runs == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("journal disabled"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.Runs.RecentRuns(limit)
	if err != nil {
		slog.Error("list runs failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if runs == nil {
		runs = []journal.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// GetRun handles GET /api/runs/{id}.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.Runs == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("journal disabled"))
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid run id"))
		return
	}
	run, err := h.Runs.GetRun(id)
	if err != nil {
		if errors.Is(err, journal.ErrRunNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get run failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	outs, err := h.Runs.Outcomes(id)
	if err != nil {
		slog.Error("get run outcomes failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if outs == nil {
		outs = []journal.Outcome{}
	}
	writeJSON(w, http.StatusOK, RunDetail{Run: *run, Outcomes: outs})
}

// Scan handles POST /api/scan.
func (h *Handler) Scan(w http.ResponseWriter, _ *http.Request) {
	if h.Trigger == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("scanner not running"))
		return
	}
	queued := h.Trigger("api")
	writeJSON(w, http.StatusAccepted, map[string]bool{"queued": queued})
}
