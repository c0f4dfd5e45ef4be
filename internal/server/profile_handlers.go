package server

import (
	"gymvy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfileByUserID handles GET /api/profiles/user/:userId
func (s *Server) GetProfileByUserID(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	detail, err := s.profiles.GetByUserID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// GetProfileByUsername handles GET /api/profiles/username/:username
// @Summary Get a profile by username
// @Description Private profiles are only visible to their owner.
// @Tags profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.ProfileDetail
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /profiles/username/{username} [get]
func (s *Server) GetProfileByUsername(c *fiber.Ctx) error {
	detail, err := s.profiles.GetByUsername(c.UserContext(), c.Params("username"), viewerPtr(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// CreateProfile handles POST /api/profiles
func (s *Server) CreateProfile(c *fiber.Ctx) error {
	var req struct {
		UserID    uint   `json:"userId" validate:"required"`
		Bio       string `json:"bio" validate:"max=500"`
		IsPrivate bool   `json:"isPrivate"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := ensureActor(c, req.UserID); err != nil {
		return nil
	}

	profile, err := s.profiles.Create(c.UserContext(), service.CreateProfileRecordInput{
		UserID:    req.UserID,
		Bio:       req.Bio,
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// UpdateProfile handles PUT /api/profiles/user/:userId
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	var req struct {
		Bio       *string `json:"bio" validate:"omitempty,max=500"`
		IsPrivate *bool   `json:"isPrivate"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.profiles.Update(c.UserContext(), service.UpdateProfileInput{
		ActorID:   viewerPtr(c),
		UserID:    userID,
		Bio:       req.Bio,
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// DeleteProfile handles DELETE /api/profiles/user/:userId
func (s *Server) DeleteProfile(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	if err := s.profiles.Delete(c.UserContext(), viewerPtr(c), userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPublicProfiles handles GET /api/profiles/public?page=&limit=&search=
func (s *Server) ListPublicProfiles(c *fiber.Ctx) error {
	page, err := s.profiles.ListPublic(c.UserContext(),
		c.QueryInt("page", 1), c.QueryInt("limit", 20), c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
