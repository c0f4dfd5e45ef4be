package service

import (
	"context"

	"gymvy/internal/models"
	"gymvy/internal/repository"
)

const (
	DefaultFeedLimit = 10
	MaxFeedLimit     = 50
)

// FeedService assembles the following feed.
type FeedService struct {
	follows repository.FollowRepository
	posts   repository.PostRepository
	users   repository.UserRepository
}

func NewFeedService(follows repository.FollowRepository, posts repository.PostRepository, users repository.UserRepository) *FeedService {
	return &FeedService{follows: follows, posts: posts, users: users}
}

// FollowingFeed returns published posts by the viewer and everyone the viewer
// follows, newest id first, strictly below cursor when given. NextCursor is
// the last returned id when another page exists, otherwise nil.
func (s *FeedService) FollowingFeed(ctx context.Context, viewerID uint, cursor *uint, limit int) (*models.FeedPage, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if _, err := s.users.GetByID(ctx, viewerID); err != nil {
		return nil, err
	}

	authors, err := s.visibleAuthors(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return &models.FeedPage{Posts: []*models.Post{}}, nil
	}

	posts, err := s.posts.Feed(ctx, authors, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	page := &models.FeedPage{Posts: posts}
	if len(posts) > limit {
		page.Posts = posts[:limit]
		page.HasMore = true
		last := page.Posts[limit-1].ID
		page.NextCursor = &last
	}
	return page, nil
}

// visibleAuthors is the followed set plus the viewer.
func (s *FeedService) visibleAuthors(ctx context.Context, viewerID uint) ([]uint, error) {
	followed, err := s.follows.FollowedIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	authors := make([]uint, 0, len(followed)+1)
	seen := make(map[uint]struct{}, len(followed)+1)
	for _, id := range append(followed, viewerID) {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		authors = append(authors, id)
	}
	return authors, nil
}
