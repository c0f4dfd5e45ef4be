package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"gymvy/internal/models"
	"gymvy/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_Update_PostgresUniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	name := "taken"
	err := repo.Update(context.Background(), &models.User{ID: 1, SupabaseID: "s", Username: &name})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(1, 1).
		WillReturnError(errors.New("connection timeout"))

	user, err := repo.GetByID(context.Background(), 1)
	assert.Nil(t, user)
	assert.True(t, models.IsCode(err, models.CodeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Lookups(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Iron_Mike")

	tests := []struct {
		name   string
		lookup func() (*models.User, error)
		found  bool
	}{
		{"by id", func() (*models.User, error) { return repo.GetByID(ctx, user.ID) }, true},
		{"by subject", func() (*models.User, error) { return repo.GetBySupabaseID(ctx, "sub-iron_mike") }, true},
		{"by username any case", func() (*models.User, error) { return repo.GetByUsername(ctx, "IRON_mike") }, true},
		{"unknown username", func() (*models.User, error) { return repo.GetByUsername(ctx, "nobody") }, false},
		{"unknown subject", func() (*models.User, error) { return repo.GetBySupabaseID(ctx, "missing") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup()
			if !tt.found {
				assert.True(t, models.IsCode(err, models.CodeNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
			assert.NotNil(t, got.Profile)
		})
	}
}

func TestUserRepository_UsernameTakenAndSearch(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	lifter := testutil.CreateUser(t, db, "lifter")
	testutil.CreateUser(t, db, "runner")
	pending := "liftoff"
	require.NoError(t, db.Create(&models.User{SupabaseID: "pending", Username: &pending}).Error)

	taken, err := repo.UsernameTaken(ctx, "LIFTER", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.UsernameTaken(ctx, "lifter", lifter.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	found, err := repo.Search(ctx, "LIFT", 20)
	require.NoError(t, err)
	require.Len(t, found, 1, "users who have not onboarded are hidden")
	assert.Equal(t, lifter.ID, found[0].ID)
}
