package service

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/lifemirror/lifemirror/internal/apperr"
	"github.com/lifemirror/lifemirror/internal/models"
)

// SavingsService manages savings goals.
type SavingsService struct {
	Resource[models.SavingsGoal, *models.SavingsGoal]
}

func (s *SavingsService) Create(ctx context.Context, owner string, in models.SavingsGoalInput) (models.SavingsGoal, error) {
	if err := validate(&in); err != nil {
		return models.SavingsGoal{}, err
	}
	return s.create(ctx, owner, in.SavingsGoal())
}

func (s *SavingsService) Update(ctx context.Context, owner, id string, p models.SavingsGoalPatch) (models.SavingsGoal, error) {
	if err := validate(&p); err != nil {
		return models.SavingsGoal{}, err
	}
	return s.modify(ctx, owner, id, func(g *models.SavingsGoal) error {
		p.Apply(g)
		return nil
	})
}

// AddFunds increases the goal's current amount. Non-positive amounts, and
// amounts that would take the total past models.MaxAmount, are rejected with
// apperr.ErrInvalid and change nothing.
func (s *SavingsService) AddFunds(ctx context.Context, owner, id string, in models.FundsInput) (models.SavingsGoal, error) {
	if err := validate(&in); err != nil {
		return models.SavingsGoal{}, err
	}
	return s.modify(ctx, owner, id, func(g *models.SavingsGoal) error {
		if g.CurrentAmount+in.Amount > models.MaxAmount {
			return apperr.Invalid(validation.Errors{
				"amount": fmt.Errorf("would take the total past %.0f", models.MaxAmount),
			})
		}
		g.CurrentAmount += in.Amount
		return nil
	})
}
