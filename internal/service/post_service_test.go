package service

import (
	"context"
	"errors"
	"testing"

	"gymvy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type imageStoreStub struct {
	deleted []string
	err     error
}

func (s *imageStoreStub) Delete(_ context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	return s.err
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(&memPosts{}, noopUserRepo(), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreatePostInput
	}{
		{"missing title", CreatePostInput{AuthorID: 1}},
		{"two attachments", CreatePostInput{AuthorID: 1, Title: "t", WorkoutID: uintPtr(1), SplitID: uintPtr(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreatePost(ctx, tt.in)
			assertValidationError(t, err)
		})
	}
}

func TestPostService_CreatePost_DefaultsUnpublished(t *testing.T) {
	t.Parallel()

	posts := &memPosts{}
	var created *models.Post
	var tags []uint
	repo := &capturingPosts{memPosts: posts, onCreate: func(p *models.Post, tagged []uint) {
		p.ID = 1
		created = p
		tags = tagged
		posts.posts = append(posts.posts, p)
	}}
	svc := NewPostService(repo, noopUserRepo(), nil)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID:      1,
		Title:         " Deadlift PR ",
		SplitID:       uintPtr(0),
		TaggedUserIDs: []uint{2, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), post.ID)
	assert.False(t, created.Published)
	assert.Equal(t, "Deadlift PR", created.Title)
	assert.Nil(t, created.SplitID, "zero attachment ids are dropped")
	assert.Equal(t, []uint{2, 3}, tags)
}

type capturingPosts struct {
	*memPosts
	onCreate func(*models.Post, []uint)
}

func (c *capturingPosts) Create(_ context.Context, p *models.Post, tagged []uint) error {
	c.onCreate(p, tagged)
	return nil
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	newSvc := func(img *imageStoreStub) *PostService {
		posts := &memPosts{posts: []*models.Post{{ID: 1, AuthorID: 7, ImageURL: "https://cdn/x.jpg"}}}
		return NewPostService(posts, noopUserRepo(), img)
	}

	t.Run("author deletes and image is removed", func(t *testing.T) {
		t.Parallel()
		img := &imageStoreStub{}
		require.NoError(t, newSvc(img).DeletePost(context.Background(), uintPtr(7), 1))
		assert.Equal(t, []string{"https://cdn/x.jpg"}, img.deleted)
	})

	t.Run("image failure is not fatal", func(t *testing.T) {
		t.Parallel()
		img := &imageStoreStub{err: errors.New("storage down")}
		assert.NoError(t, newSvc(img).DeletePost(context.Background(), nil, 1))
	})

	t.Run("other viewer is forbidden", func(t *testing.T) {
		t.Parallel()
		img := &imageStoreStub{}
		assertForbiddenError(t, newSvc(img).DeletePost(context.Background(), uintPtr(8), 1))
		assert.Empty(t, img.deleted)
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	t.Parallel()

	posts := &memPosts{posts: []*models.Post{{ID: 1, AuthorID: 7}}}
	svc := NewPostService(posts, noopUserRepo(), nil)

	empty := "  "
	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{PostID: 1, Title: &empty})
	assertValidationError(t, err)

	_, err = svc.UpdatePost(context.Background(), UpdatePostInput{ActorID: uintPtr(2), PostID: 1})
	assertForbiddenError(t, err)
}
