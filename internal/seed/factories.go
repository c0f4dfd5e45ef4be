// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"

	"gymvy/internal/middleware"
	"gymvy/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// FactoryOptions tune generated data.
type FactoryOptions struct {
	// DryRun assigns synthetic ids instead of writing rows.
	DryRun bool
	// MaxDays spreads post timestamps over this many days back.
	MaxDays int
	// RandSeed makes output reproducible when non-zero.
	RandSeed int64
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts FactoryOptions
	fake *gofakeit.Faker
	// synthetic ID counter when running in DryRun mode
	nextID uint
	seq    int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts FactoryOptions) *Factory {
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{db: db, opts: opts, fake: gofakeit.New(seed), nextID: 1000}
}

// create inserts v, skipping the named associations.
func (f *Factory) create(v any, label string, omit ...string) error {
	if f.opts.DryRun {
		f.nextID++
		middleware.Logger.Debug("dry-run create", "kind", label, "id", f.nextID)
		return nil
	}
	tx := f.db
	if len(omit) > 0 {
		tx = tx.Omit(omit...)
	}
	return tx.Create(v).Error
}

func (f *Factory) syntheticID() uint {
	if f.opts.DryRun {
		return f.nextID
	}
	return 0
}

// username returns a handle that passes username validation and is unique
// within this factory.
func (f *Factory) username() string {
	f.seq++
	base := strings.ToLower(f.fake.FirstName())
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, base)
	if len(base) < 3 {
		base = "lifter"
	}
	if len(base) > 20 {
		base = base[:20]
	}
	return fmt.Sprintf("%s_%d", base, f.seq)
}

// CreateUser persists an onboarded user with a profile. Optional overrides may
// modify the user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	first, last := f.fake.FirstName(), f.fake.LastName()
	handle := f.username()
	user := &models.User{
		SupabaseID:             f.fake.UUID(),
		Email:                  handle + "@example.com",
		Username:               &handle,
		Name:                   first + " " + last,
		FirstName:              first,
		LastName:               last,
		AvatarURL:              fmt.Sprintf("https://i.pravatar.cc/150?u=%s", handle),
		HasCompletedOnboarding: true,
		Profile: &models.Profile{
			Bio:       f.fake.Sentence(10),
			IsPrivate: f.fake.Number(1, 10) == 1,
		},
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.create(user, "user"); err != nil {
		return nil, err
	}
	if id := f.syntheticID(); id != 0 {
		user.ID = id
	}
	return user, nil
}

// CreateSplit persists a training split owned by user.
func (f *Factory) CreateSplit(user *models.User) (*models.Split, error) {
	names := []string{"Push Pull Legs", "Upper Lower", "Full Body", "Bro Split", "5x5"}
	split := &models.Split{
		UserID:      user.ID,
		Name:        names[f.fake.Number(0, len(names)-1)],
		Description: f.fake.Sentence(8),
	}
	if err := f.create(split, "split"); err != nil {
		return nil, err
	}
	if id := f.syntheticID(); id != 0 {
		split.ID = id
	}
	return split, nil
}

// CreatePost persists a post by user with a timestamp spread over MaxDays.
// Most generated posts are published.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	back := time.Duration(f.fake.Number(0, f.opts.MaxDays*24*60)) * time.Minute
	post := &models.Post{
		Title:       f.fake.Sentence(5),
		Description: f.fake.Paragraph(1, 3, 8, "\n"),
		AuthorID:    user.ID,
		Published:   f.fake.Number(1, 10) <= 8,
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.fake.UUID()),
		CreatedAt:   time.Now().Add(-back),
	}
	for _, override := range overrides {
		override(post)
	}

	if err := f.create(post, "post", "Author", "Tags"); err != nil {
		return nil, err
	}
	if id := f.syntheticID(); id != 0 {
		post.ID = id
	}
	return post, nil
}

// Follow persists the edge follower -> followed.
func (f *Factory) Follow(follower, followed *models.User) error {
	edge := &models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}
	return f.create(edge, "follow", "Follower", "Followed")
}

// Like persists a like from user on target.
func (f *Factory) Like(user *models.User, target models.Target) error {
	like := &models.Like{UserID: user.ID}
	target.Assign(&like.PostID, &like.SplitID)
	return f.create(like, "like")
}

// CreateComment persists a comment by user on target.
func (f *Factory) CreateComment(user *models.User, target models.Target) (*models.Comment, error) {
	comment := &models.Comment{
		Content: f.fake.Sentence(f.fake.Number(3, 14)),
		UserID:  user.ID,
	}
	target.Assign(&comment.PostID, &comment.SplitID)

	if err := f.create(comment, "comment", "Author"); err != nil {
		return nil, err
	}
	if id := f.syntheticID(); id != 0 {
		comment.ID = id
	}
	return comment, nil
}

// LikeComment persists a like from user on comment.
func (f *Factory) LikeComment(user *models.User, comment *models.Comment) error {
	return f.create(&models.CommentLike{UserID: user.ID, CommentID: comment.ID}, "comment_like")
}
