package repository

import (
	"context"

	"gymvy/internal/models"

	"gorm.io/gorm"
)

// LikeRepository stores likes on posts and splits.
type LikeRepository interface {
	Find(ctx context.Context, userID uint, target models.Target) (*models.Like, error)
	GetByID(ctx context.Context, id uint) (*models.Like, error)
	// Create fails with Conflict when the (user, target) pair already exists.
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, target models.Target) (int64, error)
	ListByTarget(ctx context.Context, target models.Target) ([]*models.Like, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Like, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Find(ctx context.Context, userID uint, target models.Target) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(target.Column()+" = ?", target.ID).
		First(&like).Error
	if err != nil {
		return nil, lookupErr(err, "Like", nil)
	}
	return &like, nil
}

func (r *likeRepository) GetByID(ctx context.Context, id uint) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).First(&like, id).Error; err != nil {
		return nil, lookupErr(err, "Like", id)
	}
	return &like, nil
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Omit("User", "Post", "Split").Create(like).Error; err != nil {
		return writeErr(err, "Already liked")
	}
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Like{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Like", id)
	}
	return nil
}

func (r *likeRepository) Count(ctx context.Context, target models.Target) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where(target.Column()+" = ?", target.ID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *likeRepository) ListByTarget(ctx context.Context, target models.Target) ([]*models.Like, error) {
	var likes []*models.Like
	err := r.db.WithContext(ctx).
		Preload("User").
		Where(target.Column()+" = ?", target.ID).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

func (r *likeRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Like, error) {
	var likes []*models.Like
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Split").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}
