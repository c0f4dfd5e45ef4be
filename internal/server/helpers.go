package server

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"gymvy/internal/middleware"
	"gymvy/internal/models"
	"gymvy/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseOptionalQueryID reads a positive id from the query string. An absent
// value yields nil; a malformed one writes a 400.
func parseOptionalQueryID(c *fiber.Ctx, key string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(key)))
		return nil, errResponseWritten
	}
	v := uint(id)
	return &v, nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// parseBody decodes and validates the JSON body into dst. An empty body
// leaves dst zeroed so actor fields can fall back to the viewer.
func parseBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		if err := validation.Struct(dst); err != nil {
			_ = respondError(c, err)
			return errResponseWritten
		}
		return nil
	}
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	if err := validation.Struct(dst); err != nil {
		_ = respondError(c, err)
		return errResponseWritten
	}
	return nil
}

// respondError writes err with the status its code maps to.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			"path", c.Path(), "error", err)
	}
	return models.RespondWithError(c, status, err)
}

// viewerPtr returns the authenticated user id or nil for anonymous callers.
func viewerPtr(c *fiber.Ctx) *uint {
	if id, ok := middleware.ViewerID(c); ok {
		return &id
	}
	return nil
}

// ensureActor rejects a body-supplied acting user that differs from the
// authenticated viewer. Anonymous callers are trusted as-is.
func ensureActor(c *fiber.Ctx, claimed uint) error {
	viewer, ok := middleware.ViewerID(c)
	if !ok || viewer == claimed {
		return nil
	}
	_ = models.RespondWithError(c, fiber.StatusForbidden,
		models.NewForbiddenError("authorization mismatch"))
	return errResponseWritten
}

// ensureSubject is ensureActor for routes keyed by external auth subject.
func ensureSubject(c *fiber.Ctx, claimed string) error {
	subject, ok := middleware.AuthSubject(c)
	if !ok || subject == claimed {
		return nil
	}
	_ = models.RespondWithError(c, fiber.StatusForbidden,
		models.NewForbiddenError("authorization mismatch"))
	return errResponseWritten
}

// actorOrViewer resolves the acting user named by field in the body, falling
// back to the viewer.
func actorOrViewer(c *fiber.Ctx, field string, claimed uint) (uint, error) {
	if claimed == 0 {
		if id, ok := middleware.ViewerID(c); ok {
			return id, nil
		}
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(field+" is required"))
		return 0, errResponseWritten
	}
	if err := ensureActor(c, claimed); err != nil {
		return 0, err
	}
	return claimed, nil
}
