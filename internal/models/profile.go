package models

import "time"

// Profile is the 1:1 extension of a User. It is created lazily.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Bio       string    `gorm:"type:text" json:"bio"`
	IsPrivate bool      `gorm:"default:false" json:"isPrivate"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaginationMeta describes an offset-paginated page.
type PaginationMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPaginationMeta computes the page count for total rows.
func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PaginationMeta{Page: page, Limit: limit, Total: total, Pages: pages}
}

// PublicProfilesPage is the response of the public profile directory.
type PublicProfilesPage struct {
	Profiles   []*Profile     `json:"profiles"`
	Pagination PaginationMeta `json:"pagination"`
}

// ProfileDetail is a profile with its owner and the owner's social counters.
type ProfileDetail struct {
	Profile
	User           UserSummary `json:"user"`
	FollowerCount  int64       `json:"followerCount"`
	FollowingCount int64       `json:"followingCount"`
	PostCount      int64       `json:"postCount"`
}
