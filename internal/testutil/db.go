// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"fmt"
	"testing"

	"gymvy/internal/database"
	"gymvy/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a migrated in-memory database private to t.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// every connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// CreateUser inserts an onboarded user with a lower-cased username and an
// empty public profile.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	name := models.NormalizeUsername(username)
	user := &models.User{
		SupabaseID:             "sub-" + name,
		Email:                  fmt.Sprintf("%s@example.com", name),
		Username:               &name,
		Name:                   username,
		HasCompletedOnboarding: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	profile := &models.Profile{UserID: user.ID}
	if err := db.Omit("User").Create(profile).Error; err != nil {
		t.Fatalf("create profile %s: %v", username, err)
	}
	user.Profile = profile
	return user
}

// Follow inserts a follow edge.
func Follow(t *testing.T, db *gorm.DB, followerID, followedID uint) {
	t.Helper()
	edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := db.Omit("Follower", "Followed").Create(&edge).Error; err != nil {
		t.Fatalf("create follow %d->%d: %v", followerID, followedID, err)
	}
}

// CreatePost inserts a post by authorID.
func CreatePost(t *testing.T, db *gorm.DB, authorID uint, published bool) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:     "Leg day",
		AuthorID:  authorID,
		Published: published,
	}
	if err := db.Omit("Author", "Tags").Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

// CreateSplit inserts a split owned by userID.
func CreateSplit(t *testing.T, db *gorm.DB, userID uint) *models.Split {
	t.Helper()
	split := &models.Split{UserID: userID, Name: "Push Pull Legs"}
	if err := db.Create(split).Error; err != nil {
		t.Fatalf("create split: %v", err)
	}
	return split
}

// UintPtr returns a pointer to v.
func UintPtr(v uint) *uint { return &v }
