package models

import (
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Habit tracks check-ins by date. Streak is a running counter of check-ins
// minus un-checks (never below zero), not a contiguous-day streak.
type Habit struct {
	Meta
	Name           string   `json:"name"`
	Streak         int      `json:"streak"`
	CompletedDates []string `json:"completedDates"`
}

// Toggle flips date in CompletedDates and adjusts Streak. It reports whether
// the date is checked after the call.
func (h *Habit) Toggle(date string) bool {
	if i := slices.Index(h.CompletedDates, date); i >= 0 {
		h.CompletedDates = slices.Delete(h.CompletedDates, i, i+1)
		h.Streak = max(0, h.Streak-1)
		h.CompletedDates = nonNil(h.CompletedDates)
		return false
	}
	h.CompletedDates = append(h.CompletedDates, date)
	slices.Sort(h.CompletedDates)
	h.Streak++
	return true
}

// HabitInput is the body of POST /habits.
type HabitInput struct {
	Name string `json:"name"`
}

func (in *HabitInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
	)
}

func (in HabitInput) Habit() Habit {
	return Habit{Name: in.Name, CompletedDates: []string{}}
}

// HabitPatch is the body of PUT /habits/{id}.
type HabitPatch struct {
	Name *string `json:"name"`
}

func (p *HabitPatch) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
	)
}

func (p HabitPatch) Apply(h *Habit) {
	setIf(&h.Name, p.Name)
}

// HabitCheck is the body of POST /habits/{id}/check. An empty date means today.
type HabitCheck struct {
	Date string `json:"date"`
}

func (c *HabitCheck) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Date, validation.Date(DateLayout)),
	)
}
