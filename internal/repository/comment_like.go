package repository

import (
	"context"

	"gymvy/internal/models"

	"gorm.io/gorm"
)

// CommentLikeRepository stores likes on comments.
type CommentLikeRepository interface {
	Find(ctx context.Context, userID, commentID uint) (*models.CommentLike, error)
	Create(ctx context.Context, like *models.CommentLike) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, commentID uint) (int64, error)
}

type commentLikeRepository struct {
	db *gorm.DB
}

// NewCommentLikeRepository returns a new CommentLikeRepository implementation.
func NewCommentLikeRepository(db *gorm.DB) CommentLikeRepository {
	return &commentLikeRepository{db: db}
}

func (r *commentLikeRepository) Find(ctx context.Context, userID, commentID uint) (*models.CommentLike, error) {
	var like models.CommentLike
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		First(&like).Error
	if err != nil {
		return nil, lookupErr(err, "Comment like", nil)
	}
	return &like, nil
}

func (r *commentLikeRepository) Create(ctx context.Context, like *models.CommentLike) error {
	if err := r.db.WithContext(ctx).Omit("Comment").Create(like).Error; err != nil {
		return writeErr(err, "Already liked")
	}
	return nil
}

func (r *commentLikeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.CommentLike{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentLikeRepository) Count(ctx context.Context, commentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
