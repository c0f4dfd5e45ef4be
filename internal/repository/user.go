package repository

import (
	"context"
	"strings"

	"gymvy/internal/models"

	"gorm.io/gorm"
)

// UserCounts are the social counters shown on a user page.
type UserCounts struct {
	Followers int64
	Following int64
	Workouts  int64
	Posts     int64
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetBySupabaseID(ctx context.Context, supabaseID string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error)
	Counts(ctx context.Context, userID uint) (UserCounts, error)
	Search(ctx context.Context, query string, limit int) ([]*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, lookupErr(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetBySupabaseID(ctx context.Context, supabaseID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").
		Where("supabase_id = ?", supabaseID).
		First(&user).Error; err != nil {
		return nil, lookupErr(err, "User", nil)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").
		Where("LOWER(username) = ?", models.NormalizeUsername(username)).
		First(&user).Error; err != nil {
		return nil, lookupErr(err, "User", nil)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return writeErr(err, "User already exists")
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit("Profile").Save(user).Error; err != nil {
		return writeErr(err, "Username is already taken")
	}
	return nil
}

func (r *userRepository) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = ?", models.NormalizeUsername(username))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) Counts(ctx context.Context, userID uint) (UserCounts, error) {
	var out UserCounts
	db := r.db.WithContext(ctx)
	counters := []struct {
		model any
		where string
		dest  *int64
	}{
		{&models.Follow{}, "followed_id = ?", &out.Followers},
		{&models.Follow{}, "follower_id = ?", &out.Following},
		{&models.Workout{}, "user_id = ?", &out.Workouts},
		{&models.Post{}, "author_id = ?", &out.Posts},
	}
	for _, c := range counters {
		if err := db.Model(c.model).Where(c.where, userID).Count(c.dest).Error; err != nil {
			return UserCounts{}, models.NewInternalError(err)
		}
	}
	return out, nil
}

// Search matches onboarded users by username or name, case-insensitively.
func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]*models.User, error) {
	var users []*models.User
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	err := r.db.WithContext(ctx).Preload("Profile").
		Where("has_completed_onboarding = ?", true).
		Where("LOWER(username) LIKE ? OR LOWER(name) LIKE ?", like, like).
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
