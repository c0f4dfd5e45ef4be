package server

import (
	"gymvy/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags returns configured feature flags and their state for the viewer.
// @Summary Feature flags
// @Description Anonymous callers see rollout flags evaluated as off.
// @Tags flags
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	viewer, _ := middleware.ViewerID(c)
	return c.JSON(fiber.Map{
		"raw":       s.flags.Raw(),
		"evaluated": s.flags.Snapshot(viewer),
	})
}
