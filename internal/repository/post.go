package repository

import (
	"context"

	"gymvy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	// Create inserts the post and its tag rows in one transaction.
	Create(ctx context.Context, post *models.Post, taggedUserIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByAuthors(ctx context.Context, authorIDs []uint) ([]*models.Post, error)
	// Feed returns up to fetch published posts by authorIDs with id below
	// cursor, newest id first.
	Feed(ctx context.Context, authorIDs []uint, cursor *uint, fetch int) ([]*models.Post, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, taggedUserIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		if len(taggedUserIDs) == 0 {
			return nil
		}
		tags := make([]models.PostTag, 0, len(taggedUserIDs))
		seen := make(map[uint]struct{}, len(taggedUserIDs))
		for _, uid := range taggedUserIDs {
			if _, dup := seen[uid]; dup {
				continue
			}
			seen[uid] = struct{}{}
			tags = append(tags, models.PostTag{PostID: post.ID, UserID: uid})
		}
		return tx.Omit(clause.Associations).Create(&tags).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.withDetails(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		return nil, lookupErr(err, "Post", id)
	}
	post.FlattenTags()
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.withDetails(r.db.WithContext(ctx)).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return flatten(posts, err)
}

func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []uint) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return []*models.Post{}, nil
	}
	var posts []*models.Post
	err := r.withDetails(r.db.WithContext(ctx)).
		Where("posts.author_id IN ?", authorIDs).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Find(&posts).Error
	return flatten(posts, err)
}

func (r *postRepository) Feed(ctx context.Context, authorIDs []uint, cursor *uint, fetch int) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.withDetails(r.db.WithContext(ctx)).
		Where("posts.author_id IN ?", authorIDs).
		Where("posts.published = ?", true)
	if cursor != nil {
		q = q.Where("posts.id < ?", *cursor)
	}
	err := q.Order("posts.id DESC").Limit(fetch).Find(&posts).Error
	return flatten(posts, err)
}

func (r *postRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Post, error) {
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, models.NewInternalError(res.Error)
		}
	}
	return r.GetByID(ctx, id)
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// withDetails selects computed counts and preloads the summaries a post
// response embeds.
func (r *postRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Post{}).
		Select("posts.*, " +
			"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count, " +
			"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count").
		Preload("Author.Profile").
		Preload("Workout").
		Preload("WorkoutSession").
		Preload("Split").
		Preload("Achievement").
		Preload("Tags.User")
}

func flatten(posts []*models.Post, err error) ([]*models.Post, error) {
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	for _, p := range posts {
		p.FlattenTags()
	}
	return posts, nil
}
