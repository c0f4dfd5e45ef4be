package seed

import (
	"context"
	"fmt"

	"gymvy/internal/middleware"
	"gymvy/internal/models"

	"gorm.io/gorm"
)

// Options configure a seeding run.
type Options struct {
	NumUsers int
	// NumPosts is the total across all users.
	NumPosts int
	// FollowsPerUser caps outgoing follows; every user follows up to this many others.
	FollowsPerUser int
	ShouldClean    bool
	Factory        FactoryOptions
}

// DefaultOptions is a small but connected social graph.
func DefaultOptions() Options {
	return Options{NumUsers: 25, NumPosts: 100, FollowsPerUser: 8}
}

// Summary counts what a run created.
type Summary struct {
	Users        int
	Follows      int
	Splits       int
	Posts        int
	Likes        int
	Comments     int
	CommentLikes int
}

// Seeder fills a database with a demo social graph.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder binds a Seeder to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts.Factory), opts: opts}
}

// truncated is ordered children first so deletes never violate foreign keys.
var truncated = []any{
	&models.CommentLike{},
	&models.Comment{},
	&models.Like{},
	&models.PostTag{},
	&models.Post{},
	&models.Workout{},
	&models.WorkoutSession{},
	&models.Achievement{},
	&models.Notification{},
	&models.PushToken{},
	&models.Follow{},
	&models.Split{},
	&models.Profile{},
	&models.User{},
}

// ClearAll deletes every seeded table.
func (s *Seeder) ClearAll(ctx context.Context) error {
	middleware.Logger.InfoContext(ctx, "clearing existing data")
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range truncated {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}
		return nil
	})
}

// Run seeds users, the follow graph, splits, posts and engagement.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	if s.opts.ShouldClean && !s.opts.Factory.DryRun {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}
	f := s.factory
	sum := &Summary{}

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return sum, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)
	if len(users) == 0 {
		return sum, nil
	}

	// user i follows the next FollowsPerUser users, wrapping around
	for i, u := range users {
		for k := 1; k <= s.opts.FollowsPerUser && k < len(users); k++ {
			if err := f.Follow(u, users[(i+k)%len(users)]); err != nil {
				return sum, fmt.Errorf("follow: %w", err)
			}
			sum.Follows++
		}
	}

	splits := make([]*models.Split, 0, len(users))
	for _, u := range users {
		sp, err := f.CreateSplit(u)
		if err != nil {
			return sum, fmt.Errorf("create split: %w", err)
		}
		splits = append(splits, sp)
	}
	sum.Splits = len(splits)

	for i := 0; i < s.opts.NumPosts; i++ {
		author := users[i%len(users)]
		post, err := f.CreatePost(author)
		if err != nil {
			return sum, fmt.Errorf("create post: %w", err)
		}
		sum.Posts++
		if err := s.engage(models.PostTarget(post.ID), author, users, i, sum); err != nil {
			return sum, err
		}
	}
	for i, sp := range splits {
		if err := s.engage(models.SplitTarget(sp.ID), users[i], users, i, sum); err != nil {
			return sum, err
		}
	}

	middleware.Logger.InfoContext(ctx, "database seeding completed",
		"users", sum.Users, "follows", sum.Follows, "posts", sum.Posts,
		"likes", sum.Likes, "comments", sum.Comments, "comment_likes", sum.CommentLikes)
	return sum, nil
}

// engage has a few of the author's neighbours like and comment on target.
// Each (user, target) pair is touched once so unique indexes hold.
func (s *Seeder) engage(target models.Target, author *models.User, users []*models.User, salt int, sum *Summary) error {
	f := s.factory
	n := len(users)
	likers := f.fake.Number(0, min(5, n-1))
	for k := 1; k <= likers; k++ {
		if err := f.Like(users[(salt+k)%n], target); err != nil {
			return fmt.Errorf("like %s: %w", target, err)
		}
		sum.Likes++
	}

	commenters := f.fake.Number(0, min(3, n-1))
	for k := 1; k <= commenters; k++ {
		commenter := users[(salt+n-k)%n]
		comment, err := f.CreateComment(commenter, target)
		if err != nil {
			return fmt.Errorf("comment %s: %w", target, err)
		}
		sum.Comments++
		if commenter.ID != author.ID {
			if err := f.LikeComment(author, comment); err != nil {
				return fmt.Errorf("like comment %d: %w", comment.ID, err)
			}
			sum.CommentLikes++
		}
	}
	return nil
}
