package service

import (
	"context"

	"github.com/lifemirror/lifemirror/internal/models"
)

// BillService manages bills.
type BillService struct {
	Resource[models.Bill, *models.Bill]
}

func (s *BillService) Create(ctx context.Context, owner string, in models.BillInput) (models.Bill, error) {
	if err := validate(&in); err != nil {
		return models.Bill{}, err
	}
	return s.create(ctx, owner, in.Bill())
}

// Update edits a bill; {"paid": bool} toggles payment without touching the amount.
func (s *BillService) Update(ctx context.Context, owner, id string, p models.BillPatch) (models.Bill, error) {
	if err := validate(&p); err != nil {
		return models.Bill{}, err
	}
	return s.modify(ctx, owner, id, func(b *models.Bill) error {
		p.Apply(b)
		return nil
	})
}
