package service

import (
	"context"
	"errors"
	"testing"

	"gymvy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphService_FollowIsIdempotent(t *testing.T) {
	t.Parallel()

	follows := newMemFollows()
	svc := NewGraphService(follows, noopUserRepo(), nil)
	ctx := context.Background()

	first, err := svc.Follow(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, first.AlreadyFollowing)
	assert.Equal(t, "Followed successfully", first.Message)

	second, err := svc.Follow(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, second.AlreadyFollowing)
	assert.Equal(t, 1, follows.count())
}

func TestGraphService_UnfollowIsIdempotent(t *testing.T) {
	t.Parallel()

	follows := newMemFollows([2]uint{1, 2})
	svc := NewGraphService(follows, noopUserRepo(), nil)
	ctx := context.Background()

	first, err := svc.Unfollow(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, first.WasNotFollowing)

	second, err := svc.Unfollow(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, second.WasNotFollowing)
	assert.Zero(t, follows.count())
}

func TestGraphService_FollowRejectsSelf(t *testing.T) {
	t.Parallel()

	svc := NewGraphService(newMemFollows(), noopUserRepo(), nil)
	_, err := svc.Follow(context.Background(), 3, 3)
	assertCode(t, err, models.CodeInvalidOperation)
}

func TestGraphService_FollowRaceReportsAlreadyFollowing(t *testing.T) {
	t.Parallel()

	follows := newMemFollows()
	follows.createErr = models.NewConflictError("Already following", nil)
	svc := NewGraphService(follows, noopUserRepo(), nil)

	res, err := svc.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, res.AlreadyFollowing)
}

func TestGraphService_FollowUsername(t *testing.T) {
	t.Parallel()

	lookup := func(_ context.Context, username string) (uint, error) {
		if username == "bob" {
			return 2, nil
		}
		return 0, models.NewNotFoundError("User", nil)
	}
	follows := newMemFollows()
	svc := NewGraphService(follows, noopUserRepo(), lookup)
	ctx := context.Background()

	_, err := svc.FollowUsername(ctx, 1, "bob")
	require.NoError(t, err)
	exists, _ := follows.Exists(ctx, 1, 2)
	assert.True(t, exists, "edge points from follower to followed")

	_, err = svc.FollowUsername(ctx, 1, "ghost")
	assertNotFoundError(t, err)
	assert.Equal(t, "User to follow not found", err.Error())

	_, err = svc.UnfollowUsername(ctx, 1, "ghost")
	assert.Equal(t, "User to unfollow not found", err.Error())
}

func TestGraphService_FollowUnknownFollower(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}
	svc := NewGraphService(newMemFollows(), users, nil)
	_, err := svc.Follow(context.Background(), 1, 2)
	assertNotFoundError(t, err)
}

func TestGraphService_ListsUseOneDirection(t *testing.T) {
	t.Parallel()

	// 1 follows 2 and 3, 3 follows 1
	follows := newMemFollows([2]uint{1, 2}, [2]uint{1, 3}, [2]uint{3, 1})
	users := noopUserRepo()
	users.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 1}, nil
	}
	svc := NewGraphService(follows, users, nil)
	ctx := context.Background()

	following, err := svc.ListFollowing(ctx, "one")
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, summaryIDs(following))

	followers, err := svc.ListFollowers(ctx, "one")
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, summaryIDs(followers))
}

func TestGraphService_LookupErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("redis down")
	svc := NewGraphService(newMemFollows(), noopUserRepo(), func(context.Context, string) (uint, error) {
		return 0, boom
	})
	_, err := svc.ListFollowers(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func summaryIDs(in []models.UserSummary) []uint {
	out := make([]uint, 0, len(in))
	for _, u := range in {
		out = append(out, u.ID)
	}
	return out
}
