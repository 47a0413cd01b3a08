package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Task priorities.
const (
	PriorityLow     = "low"
	PriorityMedium  = "medium"
	PriorityHigh    = "high"
	PriorityMeeting = "meeting"
	PriorityHoliday = "holiday"
)

// Task types.
const (
	TaskTypeTask    = "task"
	TaskTypeMeeting = "meeting"
	TaskTypeHoliday = "holiday"
)

var (
	taskPriorities = []any{PriorityLow, PriorityMedium, PriorityHigh, PriorityMeeting, PriorityHoliday}
	taskTypes      = []any{TaskTypeTask, TaskTypeMeeting, TaskTypeHoliday}
)

// Task is a dated to-do, meeting or holiday entry.
type Task struct {
	Meta
	Text      string `json:"text"`
	Date      string `json:"date"`
	Priority  string `json:"priority"`
	Type      string `json:"type"`
	Completed bool   `json:"completed"`
}

// TaskInput is the body of POST /tasks.
type TaskInput struct {
	Text     string `json:"text"`
	Date     string `json:"date"`
	Priority string `json:"priority"`
	Type     string `json:"type"`
}

// Validate applies defaults and checks the input.
func (in *TaskInput) Validate() error {
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if in.Type == "" {
		in.Type = TaskTypeTask
	}
	return validation.ValidateStruct(in,
		validation.Field(&in.Text, validation.Required, validation.Length(1, 500)),
		validation.Field(&in.Date, validation.Required, validation.Date(DateLayout)),
		validation.Field(&in.Priority, validation.In(taskPriorities...)),
		validation.Field(&in.Type, validation.In(taskTypes...)),
	)
}

// Task builds a new, not yet completed task.
func (in TaskInput) Task() Task {
	return Task{
		Text:     in.Text,
		Date:     in.Date,
		Priority: in.Priority,
		Type:     in.Type,
	}
}

// TaskPatch is the body of PUT /tasks/{id}. Absent fields are left unchanged.
type TaskPatch struct {
	Text      *string `json:"text"`
	Date      *string `json:"date"`
	Priority  *string `json:"priority"`
	Type      *string `json:"type"`
	Completed *bool   `json:"completed"`
}

// Validate checks the present fields.
func (p *TaskPatch) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Text, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&p.Date, validation.NilOrNotEmpty, validation.Date(DateLayout)),
		validation.Field(&p.Priority, validation.NilOrNotEmpty, validation.In(taskPriorities...)),
		validation.Field(&p.Type, validation.NilOrNotEmpty, validation.In(taskTypes...)),
	)
}

// Apply copies the present fields onto t.
func (p TaskPatch) Apply(t *Task) {
	setIf(&t.Text, p.Text)
	setIf(&t.Date, p.Date)
	setIf(&t.Priority, p.Priority)
	setIf(&t.Type, p.Type)
	setIf(&t.Completed, p.Completed)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
