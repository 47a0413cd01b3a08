package service

import (
	"context"

	"github.com/lifemirror/lifemirror/internal/clock"
	"github.com/lifemirror/lifemirror/internal/models"
)

// HabitService manages habits and their check-ins.
type HabitService struct {
	Resource[models.Habit, *models.Habit]
	clock clock.Clock
}

func (s *HabitService) Create(ctx context.Context, owner string, in models.HabitInput) (models.Habit, error) {
	if err := validate(&in); err != nil {
		return models.Habit{}, err
	}
	return s.create(ctx, owner, in.Habit())
}

func (s *HabitService) Update(ctx context.Context, owner, id string, p models.HabitPatch) (models.Habit, error) {
	if err := validate(&p); err != nil {
		return models.Habit{}, err
	}
	return s.modify(ctx, owner, id, func(h *models.Habit) error {
		p.Apply(h)
		return nil
	})
}

// Check toggles c.Date (today when empty) on the habit: an unchecked date is
// added and the streak counter incremented, a checked one removed and the
// counter decremented, never below zero.
func (s *HabitService) Check(ctx context.Context, owner, id string, c models.HabitCheck) (models.Habit, error) {
	if err := validate(&c); err != nil {
		return models.Habit{}, err
	}
	date := c.Date
	if date == "" {
		date = clock.Today(s.clock)
	}
	return s.modify(ctx, owner, id, func(h *models.Habit) error {
		h.Toggle(date)
		return nil
	})
}
