package models

import (
	"time"
)

// Post is authored content. At most one of the attachment ids is set, and
// only published posts are visible in feeds.
type Post struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Title            string          `json:"title"`
	Description      string          `gorm:"type:text" json:"description"`
	ImageURL         string          `json:"imageUrl,omitempty"`
	Published        bool            `gorm:"default:false;index" json:"published"`
	AuthorID         uint            `gorm:"not null;index" json:"authorId"`
	Author           User            `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	WorkoutID        *uint           `json:"workoutId"`
	Workout          *Workout        `gorm:"foreignKey:WorkoutID" json:"workout"`
	WorkoutSessionID *uint           `json:"workoutSessionId"`
	WorkoutSession   *WorkoutSession `gorm:"foreignKey:WorkoutSessionID" json:"workoutSession"`
	SplitID          *uint           `json:"splitId"`
	Split            *Split          `gorm:"foreignKey:SplitID" json:"split"`
	AchievementID    *uint           `json:"achievementId"`
	Achievement      *Achievement    `gorm:"foreignKey:AchievementID" json:"achievement"`
	Tags             []PostTag       `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	// TaggedUsers is the flattened view of Tags.
	TaggedUsers []UserSummary `gorm:"-" json:"taggedUsers"`
	// LikeCount and CommentCount are computed at query time
	LikeCount    int64     `gorm:"->;-:migration" json:"likeCount"`
	CommentCount int64     `gorm:"->;-:migration" json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PostTag tags a user in a post.
type PostTag struct {
	PostID uint `gorm:"primaryKey;autoIncrement:false" json:"postId"`
	UserID uint `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
}

// AttachmentCount returns how many of the optional attachments are set.
func (p *Post) AttachmentCount() int {
	n := 0
	for _, id := range []*uint{p.WorkoutID, p.WorkoutSessionID, p.SplitID, p.AchievementID} {
		if id != nil {
			n++
		}
	}
	return n
}

// FlattenTags copies the loaded tag rows into TaggedUsers.
func (p *Post) FlattenTags() {
	p.TaggedUsers = make([]UserSummary, 0, len(p.Tags))
	for i := range p.Tags {
		p.TaggedUsers = append(p.TaggedUsers, p.Tags[i].User.Summary())
	}
}

// FeedPage is one cursor-paginated page of the following feed.
type FeedPage struct {
	Posts      []*Post `json:"posts"`
	NextCursor *uint   `json:"nextCursor"`
	HasMore    bool    `json:"hasMore"`
}
