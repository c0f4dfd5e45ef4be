package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"gymvy/internal/models"
	"gymvy/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertCode asserts that err is an AppError carrying code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeNotFound)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeForbidden)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getBySupabaseIDFn func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
	usernameTakenFn   func(context.Context, string, uint) (bool, error)
	countsFn          func(context.Context, uint) (repository.UserCounts, error)
	searchFn          func(context.Context, string, int) ([]*models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetBySupabaseID(ctx context.Context, sub string) (*models.User, error) {
	return s.getBySupabaseIDFn(ctx, sub)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error { return s.updateFn(ctx, u) }
func (s *userRepoStub) UsernameTaken(ctx context.Context, username string, except uint) (bool, error) {
	return s.usernameTakenFn(ctx, username, except)
}
func (s *userRepoStub) Counts(ctx context.Context, id uint) (repository.UserCounts, error) {
	return s.countsFn(ctx, id)
}
func (s *userRepoStub) Search(ctx context.Context, q string, limit int) ([]*models.User, error) {
	return s.searchFn(ctx, q, limit)
}

// noopUserRepo finds every user by id and nothing else.
func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getBySupabaseIDFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", nil)
		},
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", nil)
		},
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		usernameTakenFn: func(_ context.Context, _ string, _ uint) (bool, error) { return false, nil },
		countsFn:        func(_ context.Context, _ uint) (repository.UserCounts, error) { return repository.UserCounts{}, nil },
		searchFn:        func(_ context.Context, _ string, _ int) ([]*models.User, error) { return nil, nil },
	}
}

// memFollows is an in-memory repository.FollowRepository.
type memFollows struct {
	mu    sync.Mutex
	edges map[[2]uint]int
	seq   int
	// createErr, when set, is returned by Create without storing the edge.
	createErr error
}

func newMemFollows(edges ...[2]uint) *memFollows {
	m := &memFollows{edges: map[[2]uint]int{}}
	for _, e := range edges {
		m.seq++
		m.edges[e] = m.seq
	}
	return m
}

func (m *memFollows) Exists(_ context.Context, follower, followed uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.edges[[2]uint{follower, followed}]
	return ok, nil
}

func (m *memFollows) Create(_ context.Context, follower, followed uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	key := [2]uint{follower, followed}
	if _, ok := m.edges[key]; ok {
		return models.NewConflictError("Already following", nil)
	}
	m.seq++
	m.edges[key] = m.seq
	return nil
}

func (m *memFollows) Delete(_ context.Context, follower, followed uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{follower, followed}
	_, ok := m.edges[key]
	delete(m.edges, key)
	return ok, nil
}

func (m *memFollows) ids(match func(e [2]uint) (uint, bool)) []uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	type hit struct {
		id  uint
		seq int
	}
	var hits []hit
	for e, seq := range m.edges {
		if id, ok := match(e); ok {
			hits = append(hits, hit{id, seq})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].seq < hits[j].seq })
	out := make([]uint, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.id)
	}
	return out
}

func (m *memFollows) usersFor(ids []uint) []*models.User {
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, &models.User{ID: id})
	}
	return out
}

func (m *memFollows) ListFollowers(_ context.Context, userID uint) ([]*models.User, error) {
	return m.usersFor(m.ids(func(e [2]uint) (uint, bool) { return e[0], e[1] == userID })), nil
}

func (m *memFollows) ListFollowing(_ context.Context, userID uint) ([]*models.User, error) {
	return m.usersFor(m.ids(func(e [2]uint) (uint, bool) { return e[1], e[0] == userID })), nil
}

func (m *memFollows) FollowedIDs(_ context.Context, follower uint) ([]uint, error) {
	return m.ids(func(e [2]uint) (uint, bool) { return e[1], e[0] == follower }), nil
}

func (m *memFollows) FollowedAmong(ctx context.Context, follower uint, candidates []uint) ([]uint, error) {
	all, _ := m.FollowedIDs(ctx, follower)
	var out []uint
	for _, c := range candidates {
		for _, id := range all {
			if id == c {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (m *memFollows) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.edges)
}

// targetRepoStub is a stub for repository.TargetRepository.
type targetRepoStub struct {
	existsFn func(context.Context, models.Target) error
}

func (s *targetRepoStub) Exists(ctx context.Context, t models.Target) error { return s.existsFn(ctx, t) }

func noopTargetRepo() *targetRepoStub {
	return &targetRepoStub{existsFn: func(_ context.Context, _ models.Target) error { return nil }}
}
