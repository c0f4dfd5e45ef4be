package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"gymvy/internal/models"
)

const maxCommentLen = 10000

// CommentPolicy decides whether actorID may modify comment. actorID is nil
// for anonymous callers.
type CommentPolicy func(ctx context.Context, actorID *uint, comment *models.Comment) error

// OwnerOnly lets only the comment author edit or delete it.
func OwnerOnly(_ context.Context, actorID *uint, comment *models.Comment) error {
	if actorID == nil {
		return models.NewUnauthorizedError("Authentication required")
	}
	if *actorID != comment.UserID {
		return models.NewForbiddenError("You can only modify your own comments")
	}
	return nil
}

// OpenPolicy lets any caller edit or delete any comment.
func OpenPolicy(context.Context, *uint, *models.Comment) error {
	return nil
}

// PolicyByName maps a configured policy name to its implementation.
func PolicyByName(name string) CommentPolicy {
	if strings.EqualFold(name, "open") {
		return OpenPolicy
	}
	return OwnerOnly
}

type CreateCommentInput struct {
	UserID uint
	// RoutePostID comes from the URL and wins over PostID from the body.
	RoutePostID *uint
	PostID      *uint
	SplitID     *uint
	Content     string
}

type UpdateCommentInput struct {
	ActorID   *uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	ActorID   *uint
	CommentID uint
}

// commentTarget prefers a post id from the route, then the body, and falls
// back to the split id.
func (in CreateCommentInput) commentTarget() (models.Target, error) {
	postID := in.RoutePostID
	if postID == nil || *postID == 0 {
		postID = in.PostID
	}
	if postID != nil && *postID != 0 {
		return models.PostTarget(*postID), nil
	}
	if in.SplitID != nil && *in.SplitID != 0 {
		return models.SplitTarget(*in.SplitID), nil
	}
	return models.Target{}, models.NewValidationError("Either postId or splitId is required")
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return "", models.NewValidationError("Comment too long (max 10000 characters)")
	}
	return content, nil
}

func (s *EngagementService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content, err := validateContent(in.Content)
	if err != nil {
		return nil, err
	}
	target, err := in.commentTarget()
	if err != nil {
		return nil, err
	}
	if err := s.checkActorAndTarget(ctx, in.UserID, target); err != nil {
		return nil, err
	}

	comment := &models.Comment{Content: content, UserID: in.UserID}
	target.Assign(&comment.PostID, &comment.SplitID)
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, comment.ID)
}

func (s *EngagementService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

// ListComments returns comments on target. With a viewer, comments carry
// engagement fields and are ranked by likes.
func (s *EngagementService) ListComments(ctx context.Context, target models.Target, viewerID *uint) ([]*models.Comment, error) {
	if err := s.targets.Exists(ctx, target); err != nil {
		return nil, err
	}
	return s.comments.ListByTarget(ctx, target, viewerID)
}

func (s *EngagementService) ListUserComments(ctx context.Context, userID uint) ([]*models.Comment, error) {
	return s.comments.ListByUser(ctx, userID)
}

func (s *EngagementService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	content, err := validateContent(in.Content)
	if err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if err := s.policy(ctx, in.ActorID, comment); err != nil {
		return nil, err
	}
	return s.comments.UpdateContent(ctx, in.CommentID, content)
}

func (s *EngagementService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if err := s.policy(ctx, in.ActorID, comment); err != nil {
		return nil, err
	}
	if err := s.comments.Delete(ctx, in.CommentID); err != nil {
		return nil, err
	}
	return comment, nil
}
