package repository

import (
	"context"
	"testing"

	"gymvy/internal/models"
	"gymvy/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_TargetsAreIndependent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewLikeRepository(db)
	targets := NewTargetRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "liker")
	post := testutil.CreatePost(t, db, user.ID, true)
	split := testutil.CreateSplit(t, db, user.ID)

	postLike := &models.Like{UserID: user.ID, PostID: &post.ID}
	splitLike := &models.Like{UserID: user.ID, SplitID: &split.ID}
	require.NoError(t, repo.Create(ctx, postLike))
	require.NoError(t, repo.Create(ctx, splitLike))

	err := repo.Create(ctx, &models.Like{UserID: user.ID, PostID: &post.ID})
	assert.True(t, models.IsCode(err, models.CodeConflict))

	found, err := repo.Find(ctx, user.ID, models.SplitTarget(split.ID))
	require.NoError(t, err)
	assert.Equal(t, splitLike.ID, found.ID)
	assert.Equal(t, models.SplitTarget(split.ID), found.Target())

	count, err := repo.Count(ctx, models.PostTarget(post.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	byUser, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	require.NoError(t, repo.Delete(ctx, postLike.ID))
	_, err = repo.Find(ctx, user.ID, models.PostTarget(post.ID))
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.True(t, models.IsCode(repo.Delete(ctx, postLike.ID), models.CodeNotFound))

	assert.NoError(t, targets.Exists(ctx, models.PostTarget(post.ID)))
	err = targets.Exists(ctx, models.SplitTarget(987))
	require.Error(t, err)
	assert.Equal(t, "Split with ID 987 not found", err.Error())
}
