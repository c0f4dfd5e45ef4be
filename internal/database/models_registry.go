package database

import "gymvy/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Follow{},
		&models.Workout{},
		&models.WorkoutSession{},
		&models.Split{},
		&models.Achievement{},
		&models.Post{},
		&models.PostTag{},
		&models.Like{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Notification{},
		&models.PushToken{},
	}
}
