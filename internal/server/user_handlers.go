package server

import (
	"strings"

	"gymvy/internal/models"
	"gymvy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AuthenticateUser handles POST /api/users/auth/:supabaseId
// @Summary Get or create the user for an auth subject
// @Tags users
// @Accept json
// @Produce json
// @Param supabaseId path string true "Auth subject"
// @Param request body object{email=string} false "Optional email"
// @Success 200 {object} models.User
// @Success 201 {object} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /users/auth/{supabaseId} [post]
func (s *Server) AuthenticateUser(c *fiber.Ctx) error {
	supabaseID := c.Params("supabaseId")
	if err := ensureSubject(c, supabaseID); err != nil {
		return nil
	}

	var req struct {
		Email string `json:"email" validate:"omitempty,email"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, created, err := s.users.Authenticate(c.UserContext(), supabaseID, req.Email)
	if err != nil {
		return respondError(c, err)
	}
	if created {
		return c.Status(fiber.StatusCreated).JSON(user)
	}
	return c.JSON(user)
}

// GetUserByUsername handles GET /api/users/:username
// @Summary Get a user with social counters
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.UserDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username} [get]
func (s *Server) GetUserByUsername(c *fiber.Ctx) error {
	detail, err := s.users.GetByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// CreateUserProfile handles PUT /api/users/create-profile/:supabaseId
func (s *Server) CreateUserProfile(c *fiber.Ctx) error {
	supabaseID := c.Params("supabaseId")
	if err := ensureSubject(c, supabaseID); err != nil {
		return nil
	}

	var req struct {
		Name     string `json:"name" validate:"required,max=100"`
		Username string `json:"username" validate:"required,username"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.users.CreateProfile(c.UserContext(), service.CreateProfileInput{
		SupabaseID: supabaseID,
		Name:       strings.TrimSpace(req.Name),
		Username:   req.Username,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// CompleteOnboarding handles PUT /api/users/complete-onboarding/:supabaseId
func (s *Server) CompleteOnboarding(c *fiber.Ctx) error {
	supabaseID := c.Params("supabaseId")
	if err := ensureSubject(c, supabaseID); err != nil {
		return nil
	}

	user, err := s.users.CompleteOnboarding(c.UserContext(), supabaseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// CheckUsername handles GET /api/users/check-username/:username
func (s *Server) CheckUsername(c *fiber.Ctx) error {
	available, normalized, err := s.users.CheckUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"available": available, "username": normalized})
}

// SearchUsers handles GET /api/users/search?query=&currentUserId=
// @Summary Search onboarded users by username or name
// @Tags users
// @Produce json
// @Param query query string false "Search text"
// @Param currentUserId query int false "Viewer used to fill isFollowing"
// @Success 200 {array} models.UserSearchResult
// @Router /users/search [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	currentUserID, err := parseOptionalQueryID(c, "currentUserId")
	if err != nil {
		return nil
	}
	if currentUserID == nil {
		currentUserID = viewerPtr(c)
	}

	results, err := s.users.Search(c.UserContext(), c.Query("query"), currentUserID)
	if err != nil {
		return respondError(c, err)
	}
	if results == nil {
		results = []models.UserSearchResult{}
	}
	return c.JSON(results)
}
