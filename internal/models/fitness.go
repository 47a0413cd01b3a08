package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Fitness log types.
const (
	FitnessSteps       = "steps"
	FitnessWorkout     = "workout"
	FitnessSleep       = "sleep"
	FitnessCaloriesOut = "calories_out"
	FitnessWater       = "water_intake"
	FitnessWeight      = "weight"
)

var fitnessTypes = []any{FitnessSteps, FitnessWorkout, FitnessSleep, FitnessCaloriesOut, FitnessWater, FitnessWeight}

// DefaultUnits maps a fitness type to the unit used when none is given.
var DefaultUnits = map[string]string{
	FitnessSteps:       "steps",
	FitnessWorkout:     "min",
	FitnessSleep:       "hours",
	FitnessCaloriesOut: "kcal",
	FitnessWater:       "ml",
	FitnessWeight:      "kg",
}

// FitnessLog is one measurement. Logs are append-only.
type FitnessLog struct {
	Meta
	Date  string  `json:"date"`
	Time  string  `json:"time"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// FitnessLogInput is the body of POST /fitness-logs.
type FitnessLogInput struct {
	Date  string   `json:"date"`
	Time  string   `json:"time"`
	Type  string   `json:"type"`
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

func (in *FitnessLogInput) Validate() error {
	if in.Unit == "" {
		in.Unit = DefaultUnits[in.Type]
	}
	return validation.ValidateStruct(in,
		validation.Field(&in.Date, validation.Required, validation.Date(DateLayout)),
		validation.Field(&in.Time, validation.Required, validation.Date(TimeLayout)),
		validation.Field(&in.Type, validation.Required, validation.In(fitnessTypes...)),
		validation.Field(&in.Value, validation.NotNil, validation.Min(0.0)),
		validation.Field(&in.Unit, validation.Length(1, 20)),
	)
}

func (in FitnessLogInput) FitnessLog() FitnessLog {
	l := FitnessLog{
		Date: in.Date,
		Time: in.Time,
		Type: in.Type,
		Unit: in.Unit,
	}
	if in.Value != nil {
		l.Value = *in.Value
	}
	return l
}
