package server

import (
	"gymvy/internal/models"

	"github.com/gofiber/fiber/v2"
)

type likeRequest struct {
	UserID  uint  `json:"userId"`
	PostID  *uint `json:"postId"`
	SplitID *uint `json:"splitId"`
}

// resolve returns the acting user and the like target named by the body.
func (req likeRequest) resolve(c *fiber.Ctx) (uint, models.Target, error) {
	userID, err := actorOrViewer(c, "userId", req.UserID)
	if err != nil {
		return 0, models.Target{}, err
	}
	target, err := models.ResolveTarget(req.PostID, req.SplitID)
	if err != nil {
		_ = respondError(c, err)
		return 0, models.Target{}, errResponseWritten
	}
	return userID, target, nil
}

// ToggleLike handles POST /api/likes/toggle
// @Summary Toggle a like on a post or split
// @Tags likes
// @Accept json
// @Produce json
// @Param request body likeRequest true "Exactly one of postId or splitId"
// @Success 200 {object} models.ToggleResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /likes/toggle [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	var req likeRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, target, err := req.resolve(c)
	if err != nil {
		return nil
	}

	res, err := s.engagement.ToggleLike(c.UserContext(), userID, target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// CreateLike handles POST /api/likes
func (s *Server) CreateLike(c *fiber.Ctx) error {
	var req likeRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, target, err := req.resolve(c)
	if err != nil {
		return nil
	}

	like, err := s.engagement.CreateLike(c.UserContext(), userID, target)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// DeleteLike handles DELETE /api/likes/:id
func (s *Server) DeleteLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.engagement.DeleteLike(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Like removed successfully"})
}

// LikePost handles POST /api/posts/:postId/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	var req struct {
		UserID uint `json:"userId"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := actorOrViewer(c, "userId", req.UserID)
	if err != nil {
		return nil
	}

	like, err := s.engagement.CreateLike(c.UserContext(), userID, models.PostTarget(postID))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// UnlikePost handles DELETE /api/posts/:postId/like/:userId
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	if err := ensureActor(c, userID); err != nil {
		return nil
	}

	if err := s.engagement.Unlike(c.UserContext(), userID, models.PostTarget(postID)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Like removed successfully"})
}

// GetPostLikes handles GET /api/likes/post/:postId
func (s *Server) GetPostLikes(c *fiber.Ctx) error {
	return s.listLikes(c, "postId", models.PostTarget)
}

// GetSplitLikes handles GET /api/likes/split/:splitId
func (s *Server) GetSplitLikes(c *fiber.Ctx) error {
	return s.listLikes(c, "splitId", models.SplitTarget)
}

func (s *Server) listLikes(c *fiber.Ctx, param string, target func(uint) models.Target) error {
	id, err := parseID(c, param)
	if err != nil {
		return nil
	}
	likes, err := s.engagement.ListLikes(c.UserContext(), target(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(likes)
}

// GetUserLikes handles GET /api/likes/user/:userId
func (s *Server) GetUserLikes(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	likes, err := s.engagement.ListUserLikes(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(likes)
}

// ToggleCommentLike handles POST /api/comment-likes/toggle
// @Summary Toggle a like on a comment
// @Description shouldNotify is true only for a new like whose comment author follows the liker.
// @Tags likes
// @Accept json
// @Produce json
// @Param request body object{userId=int,commentId=int} true "Toggle"
// @Success 200 {object} models.CommentLikeToggleResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comment-likes/toggle [post]
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	var req struct {
		UserID    uint `json:"userId"`
		CommentID uint `json:"commentId" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := actorOrViewer(c, "userId", req.UserID)
	if err != nil {
		return nil
	}

	res, err := s.engagement.ToggleCommentLike(c.UserContext(), userID, req.CommentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
