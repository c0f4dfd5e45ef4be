package service

import (
	"context"
	"sort"
	"testing"

	"gymvy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPosts serves the feed query from a fixed post list.
type memPosts struct {
	posts     []*models.Post
	feedCalls int
}

func (m *memPosts) Create(context.Context, *models.Post, []uint) error { return nil }
func (m *memPosts) GetByID(_ context.Context, id uint) (*models.Post, error) {
	for _, p := range m.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, models.NewNotFoundError("Post", id)
}
func (m *memPosts) List(context.Context, int, int) ([]*models.Post, error) { return m.posts, nil }
func (m *memPosts) ListByAuthors(context.Context, []uint) ([]*models.Post, error) {
	return m.posts, nil
}
func (m *memPosts) Update(ctx context.Context, id uint, _ map[string]interface{}) (*models.Post, error) {
	return m.GetByID(ctx, id)
}
func (m *memPosts) Delete(context.Context, uint) error { return nil }

func (m *memPosts) Feed(_ context.Context, authors []uint, cursor *uint, fetch int) ([]*models.Post, error) {
	m.feedCalls++
	allowed := map[uint]bool{}
	for _, a := range authors {
		allowed[a] = true
	}
	var out []*models.Post
	for _, p := range m.posts {
		if !p.Published || !allowed[p.AuthorID] {
			continue
		}
		if cursor != nil && p.ID >= *cursor {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > fetch {
		out = out[:fetch]
	}
	return out, nil
}

func postIDs(posts []*models.Post) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestFeedService_Membership(t *testing.T) {
	t.Parallel()

	// viewer 1 follows 2 and 3; 4 is a stranger
	follows := newMemFollows([2]uint{1, 2}, [2]uint{1, 3})
	posts := &memPosts{posts: []*models.Post{
		{ID: 1, AuthorID: 2, Published: true},
		{ID: 2, AuthorID: 2, Published: false},
		{ID: 3, AuthorID: 4, Published: true},
		{ID: 4, AuthorID: 1, Published: true},
		{ID: 5, AuthorID: 3, Published: true},
	}}
	svc := NewFeedService(follows, posts, noopUserRepo())

	page, err := svc.FollowingFeed(context.Background(), 1, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{5, 4, 1}, postIDs(page.Posts))
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)
}

func TestFeedService_PaginationWalk(t *testing.T) {
	t.Parallel()

	follows := newMemFollows([2]uint{1, 2})
	posts := &memPosts{}
	for id := uint(1); id <= 7; id++ {
		posts.posts = append(posts.posts, &models.Post{ID: id, AuthorID: 2, Published: true})
	}
	svc := NewFeedService(follows, posts, noopUserRepo())
	ctx := context.Background()

	var (
		seen   []uint
		cursor *uint
		pages  int
	)
	for {
		page, err := svc.FollowingFeed(ctx, 1, cursor, 3)
		require.NoError(t, err)
		pages++
		seen = append(seen, postIDs(page.Posts)...)
		if !page.HasMore {
			assert.Nil(t, page.NextCursor)
			break
		}
		require.NotNil(t, page.NextCursor)
		assert.Equal(t, page.Posts[len(page.Posts)-1].ID, *page.NextCursor)
		cursor = page.NextCursor
	}

	assert.Equal(t, 3, pages)
	assert.Equal(t, []uint{7, 6, 5, 4, 3, 2, 1}, seen)
}

func TestFeedService_TwoPostScenario(t *testing.T) {
	t.Parallel()

	follows := newMemFollows([2]uint{1, 2}, [2]uint{1, 3})
	posts := &memPosts{posts: []*models.Post{
		{ID: 10, AuthorID: 2, Published: true},
		{ID: 11, AuthorID: 3, Published: true},
	}}
	svc := NewFeedService(follows, posts, noopUserRepo())
	ctx := context.Background()

	first, err := svc.FollowingFeed(ctx, 1, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{11}, postIDs(first.Posts))
	assert.True(t, first.HasMore)
	require.NotNil(t, first.NextCursor)
	assert.Equal(t, uint(11), *first.NextCursor)

	second, err := svc.FollowingFeed(ctx, 1, first.NextCursor, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{10}, postIDs(second.Posts))
	assert.False(t, second.HasMore)
}

func TestFeedService_LimitClamp(t *testing.T) {
	t.Parallel()

	follows := newMemFollows()
	posts := &memPosts{}
	for id := uint(1); id <= 60; id++ {
		posts.posts = append(posts.posts, &models.Post{ID: id, AuthorID: 1, Published: true})
	}
	svc := NewFeedService(follows, posts, noopUserRepo())

	page, err := svc.FollowingFeed(context.Background(), 1, nil, 500)
	require.NoError(t, err)
	assert.Len(t, page.Posts, MaxFeedLimit)
	assert.True(t, page.HasMore)
}

func TestFeedService_UnknownViewer(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}
	posts := &memPosts{}
	svc := NewFeedService(newMemFollows(), posts, users)

	_, err := svc.FollowingFeed(context.Background(), 99, nil, 10)
	assertNotFoundError(t, err)
	assert.Zero(t, posts.feedCalls)
}
