package server

import (
	"errors"

	"gymvy/internal/models"
	"gymvy/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

const webhookSecretHeader = "X-Webhook-Secret"

type webhookResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NotificationCreated handles POST /api/webhooks/notification-created
// @Summary Deliver a newly inserted notification row
// @Description Called by the database trigger. Non-INSERT events, self-notifications and gated comment likes are acknowledged without a push.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Webhook-Secret header string false "Shared secret"
// @Success 200 {object} webhookResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /webhooks/notification-created [post]
func (s *Server) NotificationCreated(c *fiber.Ctx) error {
	secret := c.Get(webhookSecretHeader)
	if !s.dispatcher.Authorized(secret) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(notifications.MsgUnauthorized))
	}

	ev, err := notifications.ParseEvent(c.Body())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	res := s.dispatcher.Handle(c.UserContext(), secret, ev)
	switch res.State {
	case notifications.StateUnauthorized:
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(res.Message))
	case notifications.StateInvalid:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(res.Message))
	}

	out := webhookResponse{Message: res.Message}
	if res.Err != nil {
		out.Error = publicErrorText(res.Err)
	}
	return c.JSON(out)
}

// publicErrorText is the error text safe to echo to the event source.
// AppErrors surface only their message, so wrapped store causes stay in logs.
func publicErrorText(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
