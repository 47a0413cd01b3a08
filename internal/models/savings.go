package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxAmount bounds every savings amount so running totals stay finite.
const MaxAmount = 1e12

// SavingsGoal accumulates funds toward a target. CurrentAmount only grows.
type SavingsGoal struct {
	Meta
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	Deadline      string  `json:"deadline,omitempty"`
}

// Progress returns CurrentAmount/TargetAmount clamped to [0,1].
func (g SavingsGoal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return min(1, g.CurrentAmount/g.TargetAmount)
}

// SavingsGoalInput is the body of POST /savings.
type SavingsGoalInput struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	Deadline      string  `json:"deadline"`
}

func (in *SavingsGoalInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.TargetAmount, validation.Required, validation.Min(0.0).Exclusive(), validation.Max(MaxAmount)),
		validation.Field(&in.CurrentAmount, validation.Min(0.0), validation.Max(MaxAmount)),
		validation.Field(&in.Deadline, validation.Date(DateLayout)),
	)
}

func (in SavingsGoalInput) SavingsGoal() SavingsGoal {
	return SavingsGoal{
		Name:          in.Name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		Deadline:      in.Deadline,
	}
}

// SavingsGoalPatch is the body of PUT /savings/{id}. The current amount
// cannot be edited here; see FundsInput.
type SavingsGoalPatch struct {
	Name         *string  `json:"name"`
	TargetAmount *float64 `json:"targetAmount"`
	Deadline     *string  `json:"deadline"`
}

func (p *SavingsGoalPatch) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.TargetAmount, validation.NilOrNotEmpty, validation.Min(0.0).Exclusive(), validation.Max(MaxAmount)),
		validation.Field(&p.Deadline, validation.Date(DateLayout)),
	)
}

func (p SavingsGoalPatch) Apply(g *SavingsGoal) {
	setIf(&g.Name, p.Name)
	setIf(&g.TargetAmount, p.TargetAmount)
	setIf(&g.Deadline, p.Deadline)
}

// FundsInput is the body of PUT /savings/{id}/add. Amount must be positive
// and at most MaxAmount.
type FundsInput struct {
	Amount float64 `json:"amount"`
}

func (in *FundsInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Amount, validation.Required, validation.Min(0.0).Exclusive(), validation.Max(MaxAmount)),
	)
}
