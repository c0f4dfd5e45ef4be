package repository

import (
	"context"
	"strings"

	"gymvy/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	DeleteByUserID(ctx context.Context, userID uint) error
	// Ensure returns the user's profile, creating an empty public one if absent.
	Ensure(ctx context.Context, userID uint) (*models.Profile, error)
	ListPublic(ctx context.Context, search string, limit, offset int) ([]*models.Profile, int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, lookupErr(err, "Profile", nil)
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(profile).Error; err != nil {
		return writeErr(err, "Profile already exists")
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Omit("User").Save(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Profile{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Profile", nil)
	}
	return nil
}

func (r *profileRepository) Ensure(ctx context.Context, userID uint) (*models.Profile, error) {
	profile := models.Profile{UserID: userID}
	if err := r.db.WithContext(ctx).Omit("User").
		Where(models.Profile{UserID: userID}).
		FirstOrCreate(&profile).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) ListPublic(ctx context.Context, search string, limit, offset int) ([]*models.Profile, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Profile{}).
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("profiles.is_private = ?", false)
	if s := strings.ToLower(strings.TrimSpace(search)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(users.username) LIKE ? OR LOWER(users.name) LIKE ? OR LOWER(profiles.bio) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var profiles []*models.Profile
	if err := q.Preload("User").
		Order("profiles.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return profiles, total, nil
}
