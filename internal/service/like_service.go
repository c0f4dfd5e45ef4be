package service

import (
	"context"

	"gymvy/internal/middleware"
	"gymvy/internal/models"
	"gymvy/internal/repository"
)

// EngagementService owns likes, comment likes, and comments.
type EngagementService struct {
	likes        repository.LikeRepository
	commentLikes repository.CommentLikeRepository
	comments     repository.CommentRepository
	targets      repository.TargetRepository
	follows      repository.FollowRepository
	users        repository.UserRepository
	policy       CommentPolicy
}

// NewEngagementService returns an EngagementService. A nil policy means
// OwnerOnly.
func NewEngagementService(
	likes repository.LikeRepository,
	commentLikes repository.CommentLikeRepository,
	comments repository.CommentRepository,
	targets repository.TargetRepository,
	follows repository.FollowRepository,
	users repository.UserRepository,
	policy CommentPolicy,
) *EngagementService {
	if policy == nil {
		policy = OwnerOnly
	}
	return &EngagementService{
		likes:        likes,
		commentLikes: commentLikes,
		comments:     comments,
		targets:      targets,
		follows:      follows,
		users:        users,
		policy:       policy,
	}
}

// ToggleLike removes the user's like on target if present, otherwise adds it.
// Two concurrent first likes race on the unique index and the loser gets a
// Conflict.
func (s *EngagementService) ToggleLike(ctx context.Context, userID uint, target models.Target) (*models.ToggleResult, error) {
	if err := s.checkActorAndTarget(ctx, userID, target); err != nil {
		return nil, err
	}

	existing, err := s.likes.Find(ctx, userID, target)
	switch {
	case err == nil:
		if err := s.likes.Delete(ctx, existing.ID); err != nil && !models.IsCode(err, models.CodeNotFound) {
			return nil, err
		}
	case models.IsCode(err, models.CodeNotFound):
		like := &models.Like{UserID: userID}
		target.Assign(&like.PostID, &like.SplitID)
		if err := s.likes.Create(ctx, like); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	count, err := s.likes.Count(ctx, target)
	if err != nil {
		return nil, err
	}

	liked := existing == nil
	middleware.ToggleEvents.WithLabelValues(string(target.Kind), toggleLabel(liked)).Inc()
	return &models.ToggleResult{Liked: liked, LikeCount: count}, nil
}

// CreateLike adds a like and fails with Conflict when one already exists.
func (s *EngagementService) CreateLike(ctx context.Context, userID uint, target models.Target) (*models.Like, error) {
	if err := s.checkActorAndTarget(ctx, userID, target); err != nil {
		return nil, err
	}
	if _, err := s.likes.Find(ctx, userID, target); err == nil {
		return nil, models.NewConflictError("You have already liked this "+target.Label(), nil)
	} else if !models.IsCode(err, models.CodeNotFound) {
		return nil, err
	}

	like := &models.Like{UserID: userID}
	target.Assign(&like.PostID, &like.SplitID)
	if err := s.likes.Create(ctx, like); err != nil {
		return nil, err
	}
	return like, nil
}

// DeleteLike removes a like by id.
func (s *EngagementService) DeleteLike(ctx context.Context, likeID uint) error {
	return s.likes.Delete(ctx, likeID)
}

// Unlike removes userID's like on target, or reports NotFound.
func (s *EngagementService) Unlike(ctx context.Context, userID uint, target models.Target) error {
	like, err := s.likes.Find(ctx, userID, target)
	if err != nil {
		return err
	}
	return s.likes.Delete(ctx, like.ID)
}

// ListLikes returns likes on target, newest first.
func (s *EngagementService) ListLikes(ctx context.Context, target models.Target) ([]*models.Like, error) {
	if err := s.targets.Exists(ctx, target); err != nil {
		return nil, err
	}
	return s.likes.ListByTarget(ctx, target)
}

// ListUserLikes returns likes made by userID, newest first.
func (s *EngagementService) ListUserLikes(ctx context.Context, userID uint) ([]*models.Like, error) {
	return s.likes.ListByUser(ctx, userID)
}

// ToggleCommentLike flips the user's like on a comment. ShouldNotify is set
// only for a new like when the comment author follows the liker.
func (s *EngagementService) ToggleCommentLike(ctx context.Context, userID, commentID uint) (*models.CommentLikeToggleResult, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.commentLikes.Find(ctx, userID, commentID)
	switch {
	case err == nil:
		if err := s.commentLikes.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	case models.IsCode(err, models.CodeNotFound):
		if err := s.commentLikes.Create(ctx, &models.CommentLike{UserID: userID, CommentID: commentID}); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	count, err := s.commentLikes.Count(ctx, commentID)
	if err != nil {
		return nil, err
	}

	liked := existing == nil
	shouldNotify := false
	if liked && comment.UserID != userID {
		if shouldNotify, err = s.follows.Exists(ctx, comment.UserID, userID); err != nil {
			return nil, err
		}
	}

	middleware.ToggleEvents.WithLabelValues("comment", toggleLabel(liked)).Inc()
	return &models.CommentLikeToggleResult{
		Liked:           liked,
		LikeCount:       count,
		CommentAuthorID: comment.UserID,
		PostID:          comment.PostID,
		ShouldNotify:    shouldNotify,
	}, nil
}

func (s *EngagementService) checkActorAndTarget(ctx context.Context, userID uint, target models.Target) error {
	if userID == 0 {
		return models.NewValidationError("userId is required")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.targets.Exists(ctx, target)
}

func toggleLabel(liked bool) string {
	if liked {
		return "liked"
	}
	return "unliked"
}
