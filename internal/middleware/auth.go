// Package middleware provides authentication, logging, metrics, rate limiting, and tracing middleware.
package middleware

import (
	"context"
	"errors"
	"strings"

	"gymvy/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Locals keys written by OptionalAuth.
const (
	LocalUserID      = "userID"
	LocalAuthSubject = "authSubject"
)

// Claims is the subset of identity-provider access token claims the API reads.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// SubjectResolver maps an external auth subject to a local user id.
// It returns a NOT_FOUND AppError when no user exists yet.
type SubjectResolver func(ctx context.Context, subject string) (uint, error)

// ParseToken validates an HS256 access token and returns its claims.
func ParseToken(secret, audience, raw string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("missing subject")
	}
	return claims, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", true
	}
	return parts[1], true
}

// OptionalAuth identifies the caller when a bearer token is present. Anonymous
// requests pass through; a present but invalid token is rejected with 401.
// A valid token whose subject has no local user yet sets only the subject.
func OptionalAuth(secret, audience string, resolve SubjectResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, present := BearerToken(c)
		if !present {
			return c.Next()
		}
		if raw == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		claims, err := ParseToken(secret, audience, raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}
		c.Locals(LocalAuthSubject, claims.Subject)

		if resolve != nil {
			userID, err := resolve(c.UserContext(), claims.Subject)
			switch {
			case err == nil:
				c.Locals(LocalUserID, userID)
				c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
			case models.IsCode(err, models.CodeNotFound):
			default:
				Logger.ErrorContext(c.UserContext(), "resolve auth subject failed", "error", err)
				return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
			}
		}

		return c.Next()
	}
}

// AuthRequired rejects requests that OptionalAuth did not resolve to a user.
func AuthRequired(c *fiber.Ctx) error {
	if _, ok := ViewerID(c); !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}
	return c.Next()
}

// ViewerID returns the authenticated user id, if any.
func ViewerID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	return id, ok && id != 0
}

// AuthSubject returns the authenticated external subject, if any.
func AuthSubject(c *fiber.Ctx) (string, bool) {
	sub, ok := c.Locals(LocalAuthSubject).(string)
	return sub, ok && sub != ""
}
