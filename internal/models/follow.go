package models

import "time"

// Follow is a directed edge: FollowerID receives FollowedID's posts in their feed.
// The ordered pair is the primary key, so at most one edge exists per pair.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false" json:"followerId"`
	FollowedID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"followedId"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followed   User      `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FollowResult reports the outcome of a follow call.
type FollowResult struct {
	Message          string `json:"message"`
	AlreadyFollowing bool   `json:"alreadyFollowing,omitempty"`
}

// UnfollowResult reports the outcome of an unfollow call.
type UnfollowResult struct {
	Message         string `json:"message"`
	WasNotFollowing bool   `json:"wasNotFollowing,omitempty"`
}
