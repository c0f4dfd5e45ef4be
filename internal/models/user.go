// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// User is the identity anchor. SupabaseID is the external auth subject.
type User struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	SupabaseID             string    `gorm:"uniqueIndex;not null" json:"supabaseId"`
	Email                  string    `gorm:"index" json:"email"`
	Username               *string   `gorm:"uniqueIndex" json:"username"`
	Name                   string    `json:"name"`
	FirstName              string    `json:"firstName,omitempty"`
	LastName               string    `json:"lastName,omitempty"`
	AvatarURL              string    `json:"avatarUrl,omitempty"`
	HasCompletedOnboarding bool      `gorm:"default:false" json:"hasCompletedOnboarding"`
	Profile                *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// Handle returns the username or an empty string.
func (u *User) Handle() string {
	if u == nil || u.Username == nil {
		return ""
	}
	return *u.Username
}

// DisplayName resolves the name shown in notifications.
func (u *User) DisplayName() string {
	if h := u.Handle(); h != "" {
		return h
	}
	if u != nil {
		if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
			return full
		}
	}
	return "Someone"
}

// NormalizeUsername lower-cases and trims a username for storage and lookup.
func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// UserSummary is the compact user shape embedded in listings.
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

const bioExcerptLen = 140

// Summary builds a UserSummary with a bio excerpt when the profile is loaded.
func (u *User) Summary() UserSummary {
	s := UserSummary{
		ID:        u.ID,
		Username:  u.Handle(),
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
	if u.Profile != nil {
		bio := []rune(u.Profile.Bio)
		if len(bio) > bioExcerptLen {
			bio = bio[:bioExcerptLen]
		}
		s.Bio = string(bio)
	}
	return s
}

// UserDetail is a user with social counters.
type UserDetail struct {
	User
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
	WorkoutCount   int64 `json:"workoutCount"`
	PostCount      int64 `json:"postCount"`
}

// UserSearchResult is one row of a user search.
type UserSearchResult struct {
	UserSummary
	IsPrivate      bool  `json:"isPrivate"`
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
	PostCount      int64 `json:"postCount"`
	IsFollowing    *bool `json:"isFollowing,omitempty"`
}
