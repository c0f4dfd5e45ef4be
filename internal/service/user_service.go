package service

import (
	"context"
	"strings"

	"gymvy/internal/cache"
	"gymvy/internal/middleware"
	"gymvy/internal/models"
	"gymvy/internal/repository"
	"gymvy/internal/validation"
)

const searchResultLimit = 20

// UserService handles identity-linked user records and discovery.
type UserService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	follows  repository.FollowRepository
	cache    *cache.Store
}

// NewUserService returns a UserService. store may be nil.
func NewUserService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	follows repository.FollowRepository,
	store *cache.Store,
) *UserService {
	return &UserService{users: users, profiles: profiles, follows: follows, cache: store}
}

// Authenticate returns the user for an auth subject, creating it on first
// sight. The bool reports whether the user was created.
func (s *UserService) Authenticate(ctx context.Context, supabaseID, email string) (*models.User, bool, error) {
	supabaseID = strings.TrimSpace(supabaseID)
	if supabaseID == "" {
		return nil, false, models.NewValidationError("supabaseId is required")
	}

	user, err := s.users.GetBySupabaseID(ctx, supabaseID)
	if err == nil {
		return user, false, nil
	}
	if !models.IsCode(err, models.CodeNotFound) {
		return nil, false, err
	}

	user = &models.User{SupabaseID: supabaseID, Email: strings.TrimSpace(email)}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent first login
		if models.IsCode(err, models.CodeConflict) {
			existing, getErr := s.users.GetBySupabaseID(ctx, supabaseID)
			return existing, false, getErr
		}
		return nil, false, err
	}
	middleware.Logger.InfoContext(ctx, "user created", "user_id", user.ID)
	return user, true, nil
}

// GetByUsername returns the user with profile and counters.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.UserDetail, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	counts, err := s.users.Counts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &models.UserDetail{
		User:           *user,
		FollowerCount:  counts.Followers,
		FollowingCount: counts.Following,
		WorkoutCount:   counts.Workouts,
		PostCount:      counts.Posts,
	}, nil
}

type CreateProfileInput struct {
	SupabaseID string
	Name       string
	Username   string
}

// CreateProfile sets name and username and makes sure a profile exists.
func (s *UserService) CreateProfile(ctx context.Context, in CreateProfileInput) (*models.User, error) {
	username := models.NormalizeUsername(in.Username)
	if !validation.Username(username) {
		return nil, models.NewValidationError("username must be 3-30 letters, digits, dots or underscores")
	}

	user, err := s.users.GetBySupabaseID(ctx, in.SupabaseID)
	if err != nil {
		return nil, err
	}
	taken, err := s.users.UsernameTaken(ctx, username, user.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewConflictError("Username is already taken", nil)
	}

	previous := user.Handle()
	user.Username = &username
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if previous != "" && previous != username {
		s.cache.Invalidate(ctx, cache.UsernameKey(previous))
	}

	profile, err := s.profiles.Ensure(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Profile = profile
	return user, nil
}

// CompleteOnboarding flags the user as onboarded.
func (s *UserService) CompleteOnboarding(ctx context.Context, supabaseID string) (*models.User, error) {
	user, err := s.users.GetBySupabaseID(ctx, supabaseID)
	if err != nil {
		return nil, err
	}
	user.HasCompletedOnboarding = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	profile, err := s.profiles.Ensure(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Profile = profile
	return user, nil
}

// CheckUsername reports availability of the normalized username.
func (s *UserService) CheckUsername(ctx context.Context, username string) (bool, string, error) {
	username = models.NormalizeUsername(username)
	if !validation.Username(username) {
		return false, username, nil
	}
	taken, err := s.users.UsernameTaken(ctx, username, 0)
	if err != nil {
		return false, username, err
	}
	return !taken, username, nil
}

// Search finds onboarded users. IsFollowing is filled when currentUserID is given.
func (s *UserService) Search(ctx context.Context, query string, currentUserID *uint) ([]models.UserSearchResult, error) {
	results := []models.UserSearchResult{}
	if strings.TrimSpace(query) == "" {
		return results, nil
	}

	users, err := s.users.Search(ctx, query, searchResultLimit)
	if err != nil {
		return nil, err
	}

	var followed map[uint]bool
	if currentUserID != nil && len(users) > 0 {
		ids := make([]uint, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		among, err := s.follows.FollowedAmong(ctx, *currentUserID, ids)
		if err != nil {
			return nil, err
		}
		followed = make(map[uint]bool, len(among))
		for _, id := range among {
			followed[id] = true
		}
	}

	for _, u := range users {
		counts, err := s.users.Counts(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		r := models.UserSearchResult{
			UserSummary:    u.Summary(),
			IsPrivate:      u.Profile != nil && u.Profile.IsPrivate,
			FollowerCount:  counts.Followers,
			FollowingCount: counts.Following,
			PostCount:      counts.Posts,
		}
		if followed != nil {
			isFollowing := followed[u.ID]
			r.IsFollowing = &isFollowing
		}
		results = append(results, r)
	}
	return results, nil
}

// ResolveSubject maps an auth subject to a local user id through the cache.
func (s *UserService) ResolveSubject(ctx context.Context, subject string) (uint, error) {
	var id uint
	err := s.cache.Aside(ctx, cache.SubjectKey(subject), &id, cache.IdentityTTL, func() error {
		user, err := s.users.GetBySupabaseID(ctx, subject)
		if err != nil {
			return err
		}
		id = user.ID
		return nil
	})
	return id, err
}

// ResolveUsername maps a username to a local user id through the cache.
func (s *UserService) ResolveUsername(ctx context.Context, username string) (uint, error) {
	username = models.NormalizeUsername(username)
	var id uint
	err := s.cache.Aside(ctx, cache.UsernameKey(username), &id, cache.IdentityTTL, func() error {
		user, err := s.users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		id = user.ID
		return nil
	})
	return id, err
}
