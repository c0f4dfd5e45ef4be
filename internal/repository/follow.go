package repository

import (
	"context"

	"gymvy/internal/models"

	"gorm.io/gorm"
)

// FollowRepository stores directed follow edges. Every method reads the edge
// the same way: follower_id follows followed_id.
type FollowRepository interface {
	Exists(ctx context.Context, followerID, followedID uint) (bool, error)
	Create(ctx context.Context, followerID, followedID uint) error
	// Delete reports whether an edge was removed.
	Delete(ctx context.Context, followerID, followedID uint) (bool, error)
	ListFollowers(ctx context.Context, userID uint) ([]*models.User, error)
	ListFollowing(ctx context.Context, userID uint) ([]*models.User, error)
	FollowedIDs(ctx context.Context, followerID uint) ([]uint, error)
	// FollowedAmong returns the subset of candidates that followerID follows.
	FollowedAmong(ctx context.Context, followerID uint, candidates []uint) ([]uint, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) Create(ctx context.Context, followerID, followedID uint) error {
	edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := r.db.WithContext(ctx).Omit("Follower", "Followed").Create(&edge).Error; err != nil {
		return writeErr(err, "Already following")
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint) ([]*models.User, error) {
	return r.listEdgeUsers(ctx, "follows.follower_id", "follows.followed_id", userID)
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint) ([]*models.User, error) {
	return r.listEdgeUsers(ctx, "follows.followed_id", "follows.follower_id", userID)
}

// listEdgeUsers returns the users on the joinCol end of edges whose filterCol
// is userID, in edge creation order.
func (r *followRepository) listEdgeUsers(ctx context.Context, joinCol, filterCol string, userID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Joins("JOIN follows ON users.id = "+joinCol).
		Where(filterCol+" = ?", userID).
		Order("follows.created_at ASC").
		Order("users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) FollowedIDs(ctx context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followRepository) FollowedAmong(ctx context.Context, followerID uint, candidates []uint) ([]uint, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id IN ?", followerID, candidates).
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
