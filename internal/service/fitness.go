package service

import (
	"context"

	"github.com/lifemirror/lifemirror/internal/models"
)

// FitnessService manages fitness logs. Logs cannot be edited once written.
type FitnessService struct {
	Resource[models.FitnessLog, *models.FitnessLog]
}

func (s *FitnessService) Create(ctx context.Context, owner string, in models.FitnessLogInput) (models.FitnessLog, error) {
	if err := validate(&in); err != nil {
		return models.FitnessLog{}, err
	}
	return s.create(ctx, owner, in.FitnessLog())
}
