package server

import (
	"github.com/gofiber/fiber/v2"
)

type followRequest struct {
	FollowerID uint `json:"followerId"`
}

// FollowUser handles POST /api/users/:username/follow and POST /api/follow/:username
// @Summary Follow a user
// @Description Idempotent: following someone already followed succeeds with alreadyFollowing.
// @Tags graph
// @Accept json
// @Produce json
// @Param username path string true "User to follow"
// @Param request body object{followerId=int} true "Acting user"
// @Success 200 {object} models.FollowResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	var req followRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	followerID, err := actorOrViewer(c, "followerId", req.FollowerID)
	if err != nil {
		return nil
	}

	res, err := s.graph.FollowUsername(c.UserContext(), followerID, c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// UnfollowUser handles DELETE /api/users/:username/unfollow and DELETE /api/unfollow/:username
// @Summary Unfollow a user
// @Tags graph
// @Accept json
// @Produce json
// @Param username path string true "User to unfollow"
// @Param request body object{followerId=int} true "Acting user"
// @Success 200 {object} models.UnfollowResult
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username}/unfollow [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	var req followRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	followerID, err := actorOrViewer(c, "followerId", req.FollowerID)
	if err != nil {
		return nil
	}

	res, err := s.graph.UnfollowUsername(c.UserContext(), followerID, c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// GetFollowers handles GET /api/users/:username/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	users, err := s.graph.ListFollowers(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetFollowing handles GET /api/users/:username/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	users, err := s.graph.ListFollowing(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetFollowingFeed handles GET /api/feed/following/:userId?cursor=&limit=
// @Summary Following feed
// @Description Published posts by the viewer and everyone they follow, newest first.
// @Tags feed
// @Produce json
// @Param userId path int true "Viewer"
// @Param cursor query int false "Exclusive upper bound on post id"
// @Param limit query int false "Page size (default 10, max 50)"
// @Success 200 {object} models.FeedPage
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /feed/following/{userId} [get]
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	viewerID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	cursor, err := parseOptionalQueryID(c, "cursor")
	if err != nil {
		return nil
	}

	page, err := s.feed.FollowingFeed(c.UserContext(), viewerID, cursor, c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
