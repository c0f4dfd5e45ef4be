package models

import "time"

// Like joins a user with exactly one target. Each (user, target) pair is unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post;uniqueIndex:idx_likes_user_split" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	PostID    *uint     `gorm:"uniqueIndex:idx_likes_user_post;index" json:"postId"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	SplitID   *uint     `gorm:"uniqueIndex:idx_likes_user_split;index" json:"splitId"`
	Split     *Split    `gorm:"foreignKey:SplitID;constraint:OnDelete:CASCADE" json:"split,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Target returns the liked entity.
func (l *Like) Target() Target {
	if l.SplitID != nil {
		return SplitTarget(*l.SplitID)
	}
	if l.PostID != nil {
		return PostTarget(*l.PostID)
	}
	return Target{}
}

// ToggleResult is the state after a like toggle.
type ToggleResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}
