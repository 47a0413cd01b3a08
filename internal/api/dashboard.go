package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lifemirror/lifemirror/internal/checksum"
	"github.com/lifemirror/lifemirror/internal/dashboard"
	"github.com/lifemirror/lifemirror/internal/lifescore"
)

// DashboardHandler serves the aggregated dashboard and the life score.
type DashboardHandler struct {
	agg *dashboard.Aggregator
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(agg *dashboard.Aggregator) *DashboardHandler {
	return &DashboardHandler{agg: agg}
}

// All handles GET /api/dashboard/all.
//
//	@Summary		Aggregated tasks, bills, assets, fitness and mood logs
//	@Tags			dashboard
//	@Produce		json
//	@Param			If-None-Match	header		string	false	"ETag of a previously fetched snapshot"
//	@Success		200				{object}	dashboard.Snapshot
//	@Success		304				"Snapshot unchanged"
//	@Failure		500				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dashboard/all [get]
func (h *DashboardHandler) All(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	snap, err := h.agg.Snapshot(r.Context(), owner)
	if err != nil {
		writeError(w, r, "dashboard aggregation", err)
		return
	}
	body, err := json.Marshal(snap)
	if err != nil {
		writeError(w, r, "dashboard encode", err)
		return
	}

	etag := checksum.ETag(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "private, no-cache")
	if checksum.MatchETag(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Debug("dashboard write failed", slog.String("error", err.Error()))
	}
}

// Score handles GET /api/dashboard/score.
//
//	@Summary		Life score computed from the current dashboard snapshot
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{object}	lifescore.Score
//	@Failure		500	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dashboard/score [get]
func (h *DashboardHandler) Score(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	snap, err := h.agg.Snapshot(r.Context(), owner)
	if err != nil {
		writeError(w, r, "dashboard aggregation", err)
		return
	}
	writeJSON(w, http.StatusOK, lifescore.Compute(snap, snap.Date))
}
