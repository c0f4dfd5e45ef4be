package server

import (
	"gymvy/internal/models"
	"gymvy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPostComments handles GET /api/comments/post/:postId?viewerId=
// @Summary List comments on a post
// @Description With a viewer, comments include likeCount and isLikedByUser and are ranked by likes.
// @Tags comments
// @Produce json
// @Param postId path int true "Post"
// @Param viewerId query int false "Viewer"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/post/{postId} [get]
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	return s.listComments(c, "postId", models.PostTarget)
}

// GetSplitComments handles GET /api/comments/split/:splitId?viewerId=
func (s *Server) GetSplitComments(c *fiber.Ctx) error {
	return s.listComments(c, "splitId", models.SplitTarget)
}

func (s *Server) listComments(c *fiber.Ctx, param string, target func(uint) models.Target) error {
	id, err := parseID(c, param)
	if err != nil {
		return nil
	}
	viewerID, err := parseOptionalQueryID(c, "viewerId")
	if err != nil {
		return nil
	}
	if viewerID == nil {
		viewerID = viewerPtr(c)
	}

	comments, err := s.engagement.ListComments(c.UserContext(), target(id), viewerID)
	if err != nil {
		return respondError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return c.JSON(comments)
}

// GetUserComments handles GET /api/comments/user/:userId
func (s *Server) GetUserComments(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	comments, err := s.engagement.ListUserComments(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return c.JSON(comments)
}

// GetComment handles GET /api/comments/:id
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	comment, err := s.engagement.GetComment(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

type createCommentRequest struct {
	UserID  uint   `json:"userId"`
	PostID  *uint  `json:"postId"`
	SplitID *uint  `json:"splitId"`
	Content string `json:"content" validate:"required"`
}

// CreateComment handles POST /api/comments
// @Summary Comment on a post or split
// @Tags comments
// @Accept json
// @Produce json
// @Param request body createCommentRequest true "Exactly one of postId or splitId"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	return s.createComment(c, nil)
}

// CreatePostComment handles POST /api/posts/:postId/comments
func (s *Server) CreatePostComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	return s.createComment(c, &postID)
}

func (s *Server) createComment(c *fiber.Ctx, routePostID *uint) error {
	var req createCommentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := actorOrViewer(c, "userId", req.UserID)
	if err != nil {
		return nil
	}

	comment, err := s.engagement.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:      userID,
		RoutePostID: routePostID,
		PostID:      req.PostID,
		SplitID:     req.SplitID,
		Content:     req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Content string `json:"content" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.engagement.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		ActorID:   viewerPtr(c),
		CommentID: id,
		Content:   req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.engagement.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		ActorID:   viewerPtr(c),
		CommentID: id,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
