package repository

import (
	"context"
	"time"

	"gymvy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushTokenRepository stores device push addresses.
type PushTokenRepository interface {
	// Upsert inserts token or reassigns it to userID when it already exists.
	Upsert(ctx context.Context, userID uint, token, platform string) (*models.PushToken, error)
	DeleteByToken(ctx context.Context, token string) (int64, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.PushToken, error)
}

type pushTokenRepository struct {
	db *gorm.DB
}

// NewPushTokenRepository returns a new PushTokenRepository implementation.
func NewPushTokenRepository(db *gorm.DB) PushTokenRepository {
	return &pushTokenRepository{db: db}
}

func (r *pushTokenRepository) Upsert(ctx context.Context, userID uint, token, platform string) (*models.PushToken, error) {
	now := time.Now()
	row := models.PushToken{UserID: userID, Token: token, Platform: platform, CreatedAt: now, UpdatedAt: now}
	err := r.db.WithContext(ctx).Omit("User").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var stored models.PushToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&stored).Error; err != nil {
		return nil, lookupErr(err, "Push token", nil)
	}
	return &stored, nil
}

func (r *pushTokenRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	res := r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.PushToken{})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *pushTokenRepository) ListByUser(ctx context.Context, userID uint) ([]*models.PushToken, error) {
	var tokens []*models.PushToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&tokens).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tokens, nil
}
