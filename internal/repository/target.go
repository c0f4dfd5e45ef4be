package repository

import (
	"context"

	"gymvy/internal/models"

	"gorm.io/gorm"
)

// TargetRepository checks that like and comment targets exist.
type TargetRepository interface {
	Exists(ctx context.Context, target models.Target) error
}

type targetRepository struct {
	db *gorm.DB
}

// NewTargetRepository returns a TargetRepository backed by db.
func NewTargetRepository(db *gorm.DB) TargetRepository {
	return &targetRepository{db: db}
}

// Exists returns a NotFound error naming the target when it is absent.
func (r *targetRepository) Exists(ctx context.Context, target models.Target) error {
	var model any = &models.Post{}
	if target.Kind == models.TargetSplit {
		model = &models.Split{}
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", target.ID).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError(target.Label(), target.ID)
	}
	return nil
}
