package service

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/lifemirror/lifemirror/internal/apperr"
	"github.com/lifemirror/lifemirror/internal/clock"
	"github.com/lifemirror/lifemirror/internal/models"
	"github.com/lifemirror/lifemirror/internal/store"
)

// MoodService manages mood logs.
type MoodService struct {
	Resource[models.MoodLog, *models.MoodLog]
	clock clock.Clock
}

// Upsert updates owner's draft (non-final) log for in.Date if there is one and
// creates a new log otherwise. Dates after today are rejected. Finalizing a
// date that already has a final log fails with apperr.ErrConflict. It reports
// whether a log was created.
func (s *MoodService) Upsert(ctx context.Context, owner string, in models.MoodLogInput) (models.MoodLog, bool, error) {
	if err := validate(&in); err != nil {
		return models.MoodLog{}, false, err
	}
	if in.Date > clock.Today(s.clock) {
		return models.MoodLog{}, false, apperr.Invalid(validation.Errors{
			"date": errors.New("must not be in the future"),
		})
	}
	draft := store.Filter{"date": in.Date, "isFinal": false}
	m, created, err := s.coll.UpsertOne(ctx, owner, draft, func(m *models.MoodLog, found bool) error {
		in.ApplyTo(m, !found)
		return nil
	})
	if err != nil {
		return m, false, finalized(in.Date, err)
	}
	action := ActionUpdated
	if created {
		action = ActionCreated
	}
	s.emit(owner, action, m.ID)
	return m, created, nil
}

// Update edits a draft log by id. A final log is immutable, and setting
// isFinal on a date that is already finalized fails with apperr.ErrConflict.
func (s *MoodService) Update(ctx context.Context, owner, id string, p models.MoodLogPatch) (models.MoodLog, error) {
	if err := validate(&p); err != nil {
		return models.MoodLog{}, err
	}
	var date string
	m, err := s.modify(ctx, owner, id, func(m *models.MoodLog) error {
		date = m.Date
		if m.IsFinal {
			return apperr.ErrConflict
		}
		p.Apply(m)
		return nil
	})
	if err != nil {
		return m, finalized(date, err)
	}
	return m, nil
}

func finalized(date string, err error) error {
	var ce *apperr.ConflictError
	if !errors.Is(err, apperr.ErrConflict) || errors.As(err, &ce) {
		return err
	}
	msg := "mood log is already finalized for this date"
	if date != "" {
		msg = "mood log for " + date + " is already finalized"
	}
	return apperr.Conflict(msg, err)
}
