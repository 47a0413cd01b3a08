package service

import (
	"context"

	"github.com/lifemirror/lifemirror/internal/models"
)

// TaskService manages tasks.
type TaskService struct {
	Resource[models.Task, *models.Task]
}

// Create stores a new, uncompleted task.
func (s *TaskService) Create(ctx context.Context, owner string, in models.TaskInput) (models.Task, error) {
	if err := validate(&in); err != nil {
		return models.Task{}, err
	}
	return s.create(ctx, owner, in.Task())
}

// Update edits or toggles a task.
func (s *TaskService) Update(ctx context.Context, owner, id string, p models.TaskPatch) (models.Task, error) {
	if err := validate(&p); err != nil {
		return models.Task{}, err
	}
	return s.modify(ctx, owner, id, func(t *models.Task) error {
		p.Apply(t)
		return nil
	})
}
