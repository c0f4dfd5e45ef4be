package models

import "time"

// Comment targets exactly one of a post or a split.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Author    User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"author"`
	PostID    *uint     `gorm:"index" json:"postId"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	SplitID   *uint     `gorm:"index" json:"splitId"`
	Split     *Split    `gorm:"foreignKey:SplitID;constraint:OnDelete:CASCADE" json:"split,omitempty"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	UpdatedAt time.Time `json:"updatedAt"`
	// Engagement fields are computed when a viewer is supplied
	LikeCount            int64 `gorm:"->;-:migration" json:"likeCount"`
	IsLikedByCurrentUser bool  `gorm:"->;-:migration" json:"isLikedByCurrentUser"`
}

// CommentLike joins a user with a comment. Each (user, comment) pair is unique.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_likes_user_comment" json:"userId"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_likes_user_comment;index" json:"commentId"`
	Comment   *Comment  `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentLikeToggleResult extends ToggleResult with notification hints.
type CommentLikeToggleResult struct {
	Liked           bool  `json:"liked"`
	LikeCount       int64 `json:"likeCount"`
	CommentAuthorID uint  `json:"commentAuthorId"`
	PostID          *uint `json:"postId"`
	ShouldNotify    bool  `json:"shouldNotify"`
}
