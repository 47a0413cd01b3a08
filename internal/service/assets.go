package service

import (
	"context"

	"github.com/lifemirror/lifemirror/internal/models"
)

// AssetService manages vault items. Secrets are persisted as given, without
// encryption at rest.
type AssetService struct {
	Resource[models.Asset, *models.Asset]
}

func (s *AssetService) Create(ctx context.Context, owner string, in models.AssetInput) (models.Asset, error) {
	if err := validate(&in); err != nil {
		return models.Asset{}, err
	}
	return s.create(ctx, owner, in.Asset())
}

func (s *AssetService) Update(ctx context.Context, owner, id string, p models.AssetPatch) (models.Asset, error) {
	if err := validate(&p); err != nil {
		return models.Asset{}, err
	}
	return s.modify(ctx, owner, id, func(a *models.Asset) error {
		p.Apply(a)
		return validate(a)
	})
}
