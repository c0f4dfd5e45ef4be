package models

import "time"

// NotificationType enumerates social events that can fan out to a push.
type NotificationType string

const (
	NotificationLike        NotificationType = "like"
	NotificationComment     NotificationType = "comment"
	NotificationFollow      NotificationType = "follow"
	NotificationTag         NotificationType = "tag"
	NotificationCommentLike NotificationType = "comment_like"
)

// Notification is written by the event source; the dispatcher only reads it.
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RecipientID uint             `gorm:"not null;index" json:"recipientId"`
	ActorID     uint             `gorm:"not null" json:"actorId"`
	Type        NotificationType `gorm:"not null" json:"type"`
	PostID      *uint            `json:"postId,omitempty"`
	CommentID   *uint            `json:"commentId,omitempty"`
	Read        bool             `gorm:"default:false" json:"read"`
	CreatedAt   time.Time        `json:"createdAt"`
}
