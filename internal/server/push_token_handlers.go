package server

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterPushToken handles POST /api/push-tokens/register/:supabaseId
// @Summary Register a device push token
// @Tags push
// @Accept json
// @Produce json
// @Param supabaseId path string true "Auth subject"
// @Param request body object{token=string,platform=string} true "Device token"
// @Success 200 {object} object{message=string,pushToken=models.PushToken}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /push-tokens/register/{supabaseId} [post]
func (s *Server) RegisterPushToken(c *fiber.Ctx) error {
	supabaseID := c.Params("supabaseId")
	if err := ensureSubject(c, supabaseID); err != nil {
		return nil
	}
	var req struct {
		Token    string `json:"token" validate:"required"`
		Platform string `json:"platform" validate:"omitempty,oneof=ios android web"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.pushTokens.Register(c.UserContext(), supabaseID, req.Token, req.Platform)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Push token registered", "pushToken": token})
}

// RemovePushToken handles DELETE /api/push-tokens/remove
func (s *Server) RemovePushToken(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.pushTokens.Remove(c.UserContext(), req.Token); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Push token removed"})
}

// GetUserPushTokens handles GET /api/push-tokens/user/:supabaseId
func (s *Server) GetUserPushTokens(c *fiber.Ctx) error {
	supabaseID := c.Params("supabaseId")
	if err := ensureSubject(c, supabaseID); err != nil {
		return nil
	}
	tokens, err := s.pushTokens.ListForUser(c.UserContext(), supabaseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tokens)
}
