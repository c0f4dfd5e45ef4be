package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymvy/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func signToken(t *testing.T, sub, aud string, exp time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": sub,
		"aud": aud,
		"exp": time.Now().Add(exp).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func TestOptionalAuth(t *testing.T) {
	resolve := func(_ context.Context, subject string) (uint, error) {
		switch subject {
		case "known":
			return 42, nil
		case "broken":
			return 0, errors.New("db down")
		default:
			return 0, models.NewNotFoundError("User", nil)
		}
	}

	app := fiber.New()
	app.Use(OptionalAuth(testSecret, "authenticated", resolve))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		id, _ := ViewerID(c)
		sub, _ := AuthSubject(c)
		return c.JSON(fiber.Map{"userID": id, "subject": sub})
	})

	tests := []struct {
		name            string
		authHeader      string
		expectedStatus  int
		expectedUserID  uint
		expectedSubject string
	}{
		{"anonymous", "", http.StatusOK, 0, ""},
		{"known subject", "Bearer " + signToken(t, "known", "authenticated", time.Hour), http.StatusOK, 42, "known"},
		{"subject without local user", "Bearer " + signToken(t, "fresh", "authenticated", time.Hour), http.StatusOK, 0, "fresh"},
		{"wrong audience", "Bearer " + signToken(t, "known", "anon", time.Hour), http.StatusUnauthorized, 0, ""},
		{"expired", "Bearer " + signToken(t, "known", "authenticated", -time.Hour), http.StatusUnauthorized, 0, ""},
		{"malformed", "Bearer malformed.token.here", http.StatusUnauthorized, 0, ""},
		{"bad scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, 0, ""},
		{"resolver failure", "Bearer " + signToken(t, "broken", "authenticated", time.Hour), http.StatusInternalServerError, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body struct {
					UserID  uint   `json:"userID"`
					Subject string `json:"subject"`
				}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.expectedUserID, body.UserID)
				assert.Equal(t, tt.expectedSubject, body.Subject)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	app.Get("/anon", AuthRequired, func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/authed", func(c *fiber.Ctx) error {
		c.Locals(LocalUserID, uint(7))
		return c.Next()
	}, AuthRequired, func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/anon", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/authed", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestParseToken_RejectsNonHMAC(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x", "aud": "authenticated"})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, "authenticated", raw)
	assert.Error(t, err)
}
