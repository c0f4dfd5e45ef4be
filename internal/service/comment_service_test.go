package service

import (
	"context"
	"strings"
	"testing"

	"gymvy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	updateContentFn func(context.Context, uint, string) (*models.Comment, error)
	deleteFn        func(context.Context, uint) error
	listByTargetFn  func(context.Context, models.Target, *uint) ([]*models.Comment, error)
	listByUserFn    func(context.Context, uint) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) UpdateContent(ctx context.Context, id uint, content string) (*models.Comment, error) {
	return s.updateContentFn(ctx, id, content)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *commentRepoStub) ListByTarget(ctx context.Context, t models.Target, viewer *uint) ([]*models.Comment, error) {
	return s.listByTargetFn(ctx, t, viewer)
}
func (s *commentRepoStub) ListByUser(ctx context.Context, id uint) ([]*models.Comment, error) {
	return s.listByUserFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		updateContentFn: func(_ context.Context, id uint, content string) (*models.Comment, error) {
			return &models.Comment{ID: id, Content: content}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		listByTargetFn: func(_ context.Context, _ models.Target, _ *uint) ([]*models.Comment, error) {
			return nil, nil
		},
		listByUserFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
	}
}

func uintPtr(v uint) *uint { return &v }

func TestCreateComment_TargetResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        CreateCommentInput
		wantPost  *uint
		wantSplit *uint
	}{
		{"route post wins", CreateCommentInput{RoutePostID: uintPtr(1), PostID: uintPtr(2), SplitID: uintPtr(3)}, uintPtr(1), nil},
		{"body post over split", CreateCommentInput{PostID: uintPtr(2), SplitID: uintPtr(3)}, uintPtr(2), nil},
		{"split fallback", CreateCommentInput{SplitID: uintPtr(3)}, nil, uintPtr(3)},
		{"zero route post ignored", CreateCommentInput{RoutePostID: uintPtr(0), SplitID: uintPtr(3)}, nil, uintPtr(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var stored *models.Comment
			f := newEngagementFixture(nil)
			f.comments.createFn = func(_ context.Context, c *models.Comment) error {
				c.ID = 42
				stored = c
				return nil
			}

			in := tt.in
			in.UserID = 1
			in.Content = "  solid form  "
			_, err := f.svc.CreateComment(context.Background(), in)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, "solid form", stored.Content)
			assert.Equal(t, tt.wantPost, stored.PostID)
			assert.Equal(t, tt.wantSplit, stored.SplitID)
		})
	}
}

func TestCreateComment_Validation(t *testing.T) {
	t.Parallel()

	f := newEngagementFixture(nil)
	ctx := context.Background()

	_, err := f.svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: uintPtr(1)})
	assertValidationError(t, err)

	_, err = f.svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: uintPtr(1), Content: strings.Repeat("x", 10001)})
	assertValidationError(t, err)

	_, err = f.svc.CreateComment(ctx, CreateCommentInput{UserID: 1, Content: "no target"})
	assertValidationError(t, err)
}

func TestCommentPolicies(t *testing.T) {
	t.Parallel()

	comment := &models.Comment{ID: 5, UserID: 10}

	tests := []struct {
		name    string
		policy  CommentPolicy
		actor   *uint
		wantErr string
	}{
		{"owner allows author", OwnerOnly, uintPtr(10), ""},
		{"owner rejects other", OwnerOnly, uintPtr(11), models.CodeForbidden},
		{"owner rejects anonymous", OwnerOnly, nil, models.CodeUnauthorized},
		{"open allows other", OpenPolicy, uintPtr(11), ""},
		{"open allows anonymous", OpenPolicy, nil, ""},
		{"by name open", PolicyByName("OPEN"), nil, ""},
		{"by name default", PolicyByName("whatever"), uintPtr(11), models.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newEngagementFixture(tt.policy)
			f.comments.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
				c := *comment
				return &c, nil
			}

			_, updErr := f.svc.UpdateComment(context.Background(), UpdateCommentInput{ActorID: tt.actor, CommentID: 5, Content: "edit"})
			_, delErr := f.svc.DeleteComment(context.Background(), DeleteCommentInput{ActorID: tt.actor, CommentID: 5})
			if tt.wantErr == "" {
				assert.NoError(t, updErr)
				assert.NoError(t, delErr)
				return
			}
			assertCode(t, updErr, tt.wantErr)
			assertCode(t, delErr, tt.wantErr)
		})
	}
}

func TestListComments_PassesViewer(t *testing.T) {
	t.Parallel()

	f := newEngagementFixture(nil)
	var gotViewer *uint
	f.comments.listByTargetFn = func(_ context.Context, target models.Target, viewer *uint) ([]*models.Comment, error) {
		assert.Equal(t, models.PostTarget(3), target)
		gotViewer = viewer
		return []*models.Comment{{ID: 1}}, nil
	}

	comments, err := f.svc.ListComments(context.Background(), models.PostTarget(3), uintPtr(8))
	require.NoError(t, err)
	assert.Len(t, comments, 1)
	require.NotNil(t, gotViewer)
	assert.Equal(t, uint(8), *gotViewer)
}
