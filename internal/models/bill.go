package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Bill frequencies.
const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyAnnually  = "annually"
	FrequencyOneTime   = "one-time"
)

var billFrequencies = []any{FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually, FrequencyOneTime}

// Bill is a recurring or one-off payment.
type Bill struct {
	Meta
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	DueDate   string  `json:"dueDate"`
	Frequency string  `json:"frequency"`
	Category  string  `json:"category"`
	Paid      bool    `json:"paid"`
}

// BillInput is the body of POST /bills.
type BillInput struct {
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	DueDate   string  `json:"dueDate"`
	Frequency string  `json:"frequency"`
	Category  string  `json:"category"`
	Paid      bool    `json:"paid"`
}

// Validate applies defaults and checks the input.
func (in *BillInput) Validate() error {
	if in.Frequency == "" {
		in.Frequency = FrequencyMonthly
	}
	if in.Category == "" {
		in.Category = "other"
	}
	return validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Amount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&in.DueDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&in.Frequency, validation.In(billFrequencies...)),
		validation.Field(&in.Category, validation.Length(1, 100)),
	)
}

func (in BillInput) Bill() Bill {
	return Bill{
		Name:      in.Name,
		Amount:    in.Amount,
		DueDate:   in.DueDate,
		Frequency: in.Frequency,
		Category:  in.Category,
		Paid:      in.Paid,
	}
}

// BillPatch is the body of PUT /bills/{id}.
type BillPatch struct {
	Name      *string  `json:"name"`
	Amount    *float64 `json:"amount"`
	DueDate   *string  `json:"dueDate"`
	Frequency *string  `json:"frequency"`
	Category  *string  `json:"category"`
	Paid      *bool    `json:"paid"`
}

func (p *BillPatch) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.Amount, validation.NilOrNotEmpty, validation.Min(0.0).Exclusive()),
		validation.Field(&p.DueDate, validation.NilOrNotEmpty, validation.Date(DateLayout)),
		validation.Field(&p.Frequency, validation.NilOrNotEmpty, validation.In(billFrequencies...)),
		validation.Field(&p.Category, validation.NilOrNotEmpty, validation.Length(1, 100)),
	)
}

func (p BillPatch) Apply(b *Bill) {
	setIf(&b.Name, p.Name)
	setIf(&b.Amount, p.Amount)
	setIf(&b.DueDate, p.DueDate)
	setIf(&b.Frequency, p.Frequency)
	setIf(&b.Category, p.Category)
	setIf(&b.Paid, p.Paid)
}
