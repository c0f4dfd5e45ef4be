package server

import (
	"gymvy/internal/models"
	"gymvy/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	UserID           uint   `json:"userId"`
	Title            string `json:"title" validate:"required,max=200"`
	Description      string `json:"description" validate:"max=5000"`
	ImageURL         string `json:"imageUrl" validate:"omitempty,url"`
	Published        *bool  `json:"published"`
	WorkoutID        *uint  `json:"workoutId"`
	WorkoutSessionID *uint  `json:"workoutSessionId"`
	SplitID          *uint  `json:"splitId"`
	AchievementID    *uint  `json:"achievementId"`
	TaggedUserIDs    []uint `json:"taggedUserIds" validate:"max=20"`
}

// GetPosts handles GET /api/posts?limit=&offset=
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	posts, err := s.posts.ListPosts(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.posts.GetPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// GetUserPosts handles GET /api/posts/user/:userId
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	posts, err := s.posts.ListUserPosts(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPostsByUsers handles POST /api/posts/multiple
func (s *Server) GetPostsByUsers(c *fiber.Ctx) error {
	var req struct {
		UserIDs []uint `json:"userIds"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserIDs == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("userIds must be an array"))
	}
	posts, err := s.posts.ListPostsByUsers(c.UserContext(), req.UserIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description published defaults to false; at most one attachment; taggedUserIds are created with the post.
// @Tags posts
// @Accept json
// @Produce json
// @Param request body createPostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	authorID, err := actorOrViewer(c, "userId", req.UserID)
	if err != nil {
		return nil
	}

	post, err := s.posts.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID:         authorID,
		Title:            req.Title,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		Published:        req.Published,
		WorkoutID:        req.WorkoutID,
		WorkoutSessionID: req.WorkoutSessionID,
		SplitID:          req.SplitID,
		AchievementID:    req.AchievementID,
		TaggedUserIDs:    req.TaggedUserIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Title       *string `json:"title" validate:"omitempty,max=200"`
		Description *string `json:"description" validate:"omitempty,max=5000"`
		ImageURL    *string `json:"imageUrl"`
		Published   *bool   `json:"published"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.posts.UpdatePost(c.UserContext(), service.UpdatePostInput{
		ActorID:     viewerPtr(c),
		PostID:      id,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Published:   req.Published,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.posts.DeletePost(c.UserContext(), viewerPtr(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}
