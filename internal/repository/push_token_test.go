package repository

import (
	"context"
	"testing"

	"gymvy/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushTokenRepository_UpsertReassigns(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPushTokenRepository(db)
	ctx := context.Background()

	first := testutil.CreateUser(t, db, "first_owner")
	second := testutil.CreateUser(t, db, "second_owner")

	tok, err := repo.Upsert(ctx, first.ID, "ExponentPushToken[abc]", "ios")
	require.NoError(t, err)
	assert.Equal(t, first.ID, tok.UserID)

	tok, err = repo.Upsert(ctx, second.ID, "ExponentPushToken[abc]", "android")
	require.NoError(t, err)
	assert.Equal(t, second.ID, tok.UserID)
	assert.Equal(t, "android", tok.Platform)

	mine, err := repo.ListByUser(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := repo.ListByUser(ctx, second.ID)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)

	n, err := repo.DeleteByToken(ctx, "ExponentPushToken[abc]")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = repo.DeleteByToken(ctx, "ExponentPushToken[abc]")
	require.NoError(t, err)
	assert.Zero(t, n)
}
