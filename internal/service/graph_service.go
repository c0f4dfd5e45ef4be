package service

import (
	"context"

	"gymvy/internal/middleware"
	"gymvy/internal/models"
	"gymvy/internal/repository"
)

// GraphService owns the follow relationship. An edge (follower, followed)
// means follower sees followed's posts.
type GraphService struct {
	follows  repository.FollowRepository
	users    repository.UserRepository
	lookupID func(ctx context.Context, username string) (uint, error)
}

// NewGraphService returns a GraphService. lookupID resolves usernames to ids
// and may be nil, in which case the user repository is queried directly.
func NewGraphService(
	follows repository.FollowRepository,
	users repository.UserRepository,
	lookupID func(ctx context.Context, username string) (uint, error),
) *GraphService {
	return &GraphService{follows: follows, users: users, lookupID: lookupID}
}

// Follow creates the edge followerID -> followedID. Repeating it succeeds and
// reports AlreadyFollowing.
func (s *GraphService) Follow(ctx context.Context, followerID, followedID uint) (*models.FollowResult, error) {
	if followerID == followedID {
		return nil, models.NewInvalidOperationError("You cannot follow yourself")
	}
	if _, err := s.users.GetByID(ctx, followerID); err != nil {
		return nil, err
	}

	exists, err := s.follows.Exists(ctx, followerID, followedID)
	if err != nil {
		return nil, err
	}
	if exists {
		return &models.FollowResult{Message: "Already following", AlreadyFollowing: true}, nil
	}

	if err := s.follows.Create(ctx, followerID, followedID); err != nil {
		// a concurrent follow won the insert
		if models.IsCode(err, models.CodeConflict) {
			return &models.FollowResult{Message: "Already following", AlreadyFollowing: true}, nil
		}
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "user followed", "follower_id", followerID, "followed_id", followedID)
	return &models.FollowResult{Message: "Followed successfully"}, nil
}

// Unfollow removes the edge. Repeating it succeeds and reports WasNotFollowing.
func (s *GraphService) Unfollow(ctx context.Context, followerID, followedID uint) (*models.UnfollowResult, error) {
	deleted, err := s.follows.Delete(ctx, followerID, followedID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return &models.UnfollowResult{Message: "Not following", WasNotFollowing: true}, nil
	}
	return &models.UnfollowResult{Message: "Unfollowed successfully"}, nil
}

// FollowUsername follows the user with the given handle.
func (s *GraphService) FollowUsername(ctx context.Context, followerID uint, username string) (*models.FollowResult, error) {
	followedID, err := s.resolve(ctx, username, "User to follow not found")
	if err != nil {
		return nil, err
	}
	return s.Follow(ctx, followerID, followedID)
}

// UnfollowUsername unfollows the user with the given handle.
func (s *GraphService) UnfollowUsername(ctx context.Context, followerID uint, username string) (*models.UnfollowResult, error) {
	followedID, err := s.resolve(ctx, username, "User to unfollow not found")
	if err != nil {
		return nil, err
	}
	return s.Unfollow(ctx, followerID, followedID)
}

// ListFollowers returns users following username, oldest edge first.
func (s *GraphService) ListFollowers(ctx context.Context, username string) ([]models.UserSummary, error) {
	userID, err := s.resolve(ctx, username, "User not found")
	if err != nil {
		return nil, err
	}
	users, err := s.follows.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

// ListFollowing returns users that username follows, oldest edge first.
func (s *GraphService) ListFollowing(ctx context.Context, username string) ([]models.UserSummary, error) {
	userID, err := s.resolve(ctx, username, "User not found")
	if err != nil {
		return nil, err
	}
	users, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

func (s *GraphService) resolve(ctx context.Context, username, notFoundMsg string) (uint, error) {
	var (
		id  uint
		err error
	)
	if s.lookupID != nil {
		id, err = s.lookupID(ctx, username)
	} else {
		var user *models.User
		if user, err = s.users.GetByUsername(ctx, username); err == nil {
			id = user.ID
		}
	}
	if models.IsCode(err, models.CodeNotFound) {
		return 0, &models.AppError{Code: models.CodeNotFound, Message: notFoundMsg}
	}
	return id, err
}

func summaries(users []*models.User) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}
