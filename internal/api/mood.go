package api

import (
	"net/http"

	"github.com/lifemirror/lifemirror/internal/models"
	"github.com/lifemirror/lifemirror/internal/service"
)

// MoodHandler serves the mood upsert, which does not fit the generic create.
type MoodHandler struct {
	svc *service.MoodService
}

// Upsert handles POST /api/mood-logs. The draft for the date is updated in
// place (200) or a new log is created (201). Finalizing a date twice is 409.
//
//	@Summary		Create or update the mood log for a date
//	@Tags			mood
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.MoodLogInput	true	"Mood entry"
//	@Success		200		{object}	models.MoodLog
//	@Success		201		{object}	models.MoodLog
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/mood-logs [post]
func (h *MoodHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var in models.MoodLogInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, r, "upsert mood log", err)
		return
	}
	m, created, err := h.svc.Upsert(r.Context(), owner, in)
	if err != nil {
		writeError(w, r, "upsert mood log", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, m)
}
