package service

import (
	"context"
	"strings"

	"gymvy/internal/middleware"
	"gymvy/internal/models"
	"gymvy/internal/repository"
)

// ImageStore removes externally stored post images.
type ImageStore interface {
	Delete(ctx context.Context, imageURL string) error
}

type PostService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	images ImageStore
}

type CreatePostInput struct {
	AuthorID         uint
	Title            string
	Description      string
	ImageURL         string
	Published        *bool
	WorkoutID        *uint
	WorkoutSessionID *uint
	SplitID          *uint
	AchievementID    *uint
	TaggedUserIDs    []uint
}

type UpdatePostInput struct {
	ActorID     *uint
	PostID      uint
	Title       *string
	Description *string
	ImageURL    *string
	Published   *bool
}

// NewPostService returns a PostService. images may be nil.
func NewPostService(posts repository.PostRepository, users repository.UserRepository, images ImageStore) *PostService {
	return &PostService{posts: posts, users: users, images: images}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	post := &models.Post{
		Title:            title,
		Description:      in.Description,
		ImageURL:         strings.TrimSpace(in.ImageURL),
		AuthorID:         in.AuthorID,
		WorkoutID:        nonZero(in.WorkoutID),
		WorkoutSessionID: nonZero(in.WorkoutSessionID),
		SplitID:          nonZero(in.SplitID),
		AchievementID:    nonZero(in.AchievementID),
	}
	if in.Published != nil {
		post.Published = *in.Published
	}
	if post.AttachmentCount() > 1 {
		return nil, models.NewValidationError("A post can have at most one attachment")
	}
	if _, err := s.users.GetByID(ctx, in.AuthorID); err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post, in.TaggedUserIDs); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.posts.List(ctx, limit, offset)
}

func (s *PostService) ListUserPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	return s.posts.ListByAuthors(ctx, []uint{userID})
}

func (s *PostService) ListPostsByUsers(ctx context.Context, userIDs []uint) ([]*models.Post, error) {
	return s.posts.ListByAuthors(ctx, userIDs)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if in.ActorID != nil && *in.ActorID != post.AuthorID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.ImageURL != nil {
		fields["image_url"] = strings.TrimSpace(*in.ImageURL)
	}
	if in.Published != nil {
		fields["published"] = *in.Published
	}
	return s.posts.Update(ctx, in.PostID, fields)
}

// DeletePost removes the post and, best-effort, its stored image.
func (s *PostService) DeletePost(ctx context.Context, actorID *uint, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if actorID != nil && *actorID != post.AuthorID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	if s.images != nil && post.ImageURL != "" {
		if err := s.images.Delete(ctx, post.ImageURL); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to delete post image", "post_id", postID, "error", err)
		}
	}
	return nil
}

func nonZero(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}
