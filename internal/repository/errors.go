// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"gymvy/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// isUniqueViolation recognizes duplicate-key failures from postgres and sqlite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// lookupErr maps a failed single-row read to NotFound or Internal.
func lookupErr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// writeErr maps a failed insert or update to Conflict or Internal.
func writeErr(err error, conflictMsg string) error {
	if isUniqueViolation(err) {
		return models.NewConflictError(conflictMsg, err)
	}
	return models.NewInternalError(err)
}
