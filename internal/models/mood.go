package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Mood defaults used for new drafts and the synthesized placeholder.
const (
	DefaultMood   = 2
	DefaultStress = 45
	MaxMood       = 4

	// PlaceholderMoodID marks a synthesized mood record that was never stored.
	PlaceholderMoodID = "placeholder-today"
)

// MoodLog is a mood entry for a date. At most one final log exists per owner and date;
// a non-final log is a draft that may be updated in place.
type MoodLog struct {
	Meta
	Date    string `json:"date"`
	Mood    int    `json:"mood"`
	Note    string `json:"note,omitempty"`
	Stress  int    `json:"stress"`
	IsFinal bool   `json:"isFinal"`
}

// Placeholder reports whether the record was synthesized rather than loaded.
func (m MoodLog) Placeholder() bool {
	return m.ID == PlaceholderMoodID
}

// NewPlaceholderMood returns the non-persisted neutral entry for date.
func NewPlaceholderMood(date string) MoodLog {
	return MoodLog{
		Meta:   Meta{ID: PlaceholderMoodID},
		Date:   date,
		Mood:   DefaultMood,
		Stress: DefaultStress,
	}
}

// MoodLogInput is the body of POST /mood-logs.
type MoodLogInput struct {
	Date    string  `json:"date"`
	Mood    *int    `json:"mood"`
	Note    *string `json:"note"`
	Stress  *int    `json:"stress"`
	IsFinal bool    `json:"isFinal"`
}

func (in *MoodLogInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Date, validation.Required, validation.Date(DateLayout)),
		validation.Field(&in.Mood, validation.Min(0), validation.Max(MaxMood)),
		validation.Field(&in.Stress, validation.Min(0), validation.Max(100)),
		validation.Field(&in.Note, validation.Length(0, 1000)),
	)
}

// ApplyTo writes the input onto a new or existing draft. Missing mood, stress
// and note keep the record's current values, or the defaults on a new record.
func (in MoodLogInput) ApplyTo(m *MoodLog, isNew bool) {
	m.Date = in.Date
	if isNew {
		m.Mood = DefaultMood
		m.Stress = DefaultStress
	}
	setIf(&m.Mood, in.Mood)
	setIf(&m.Stress, in.Stress)
	setIf(&m.Note, in.Note)
	m.IsFinal = in.IsFinal
}

// MoodLogPatch is the body of PUT /mood-logs/{id}.
type MoodLogPatch struct {
	Mood    *int    `json:"mood"`
	Note    *string `json:"note"`
	Stress  *int    `json:"stress"`
	IsFinal *bool   `json:"isFinal"`
}

func (p *MoodLogPatch) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Mood, validation.Min(0), validation.Max(MaxMood)),
		validation.Field(&p.Stress, validation.Min(0), validation.Max(100)),
		validation.Field(&p.Note, validation.Length(0, 1000)),
	)
}

func (p MoodLogPatch) Apply(m *MoodLog) {
	setIf(&m.Mood, p.Mood)
	setIf(&m.Note, p.Note)
	setIf(&m.Stress, p.Stress)
	setIf(&m.IsFinal, p.IsFinal)
}
