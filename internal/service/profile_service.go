package service

import (
	"context"

	"gymvy/internal/models"
	"gymvy/internal/repository"
)

// ProfileService manages the 1:1 profile record of a user.
type ProfileService struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
}

func NewProfileService(profiles repository.ProfileRepository, users repository.UserRepository) *ProfileService {
	return &ProfileService{profiles: profiles, users: users}
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID uint) (*models.ProfileDetail, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Profile == nil {
		return nil, models.NewNotFoundError("Profile", nil)
	}
	return s.detail(ctx, user)
}

// GetByUsername hides private profiles from everyone but their owner.
func (s *ProfileService) GetByUsername(ctx context.Context, username string, viewerID *uint) (*models.ProfileDetail, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.Profile == nil {
		return nil, models.NewNotFoundError("Profile", nil)
	}
	if user.Profile.IsPrivate && (viewerID == nil || *viewerID != user.ID) {
		return nil, models.NewForbiddenError("This profile is private")
	}
	return s.detail(ctx, user)
}

type CreateProfileRecordInput struct {
	UserID    uint
	Bio       string
	IsPrivate bool
}

func (s *ProfileService) Create(ctx context.Context, in CreateProfileRecordInput) (*models.Profile, error) {
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}
	if _, err := s.profiles.GetByUserID(ctx, in.UserID); err == nil {
		return nil, models.NewValidationError("Profile already exists")
	} else if !models.IsCode(err, models.CodeNotFound) {
		return nil, err
	}

	profile := &models.Profile{UserID: in.UserID, Bio: in.Bio, IsPrivate: in.IsPrivate}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if models.IsCode(err, models.CodeConflict) {
			return nil, models.NewValidationError("Profile already exists")
		}
		return nil, err
	}
	return profile, nil
}

type UpdateProfileInput struct {
	ActorID   *uint
	UserID    uint
	Bio       *string
	IsPrivate *bool
}

// Update applies the given fields, creating the profile if needed.
func (s *ProfileService) Update(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	if err := ownsProfile(in.ActorID, in.UserID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}
	profile, err := s.profiles.Ensure(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.IsPrivate != nil {
		profile.IsPrivate = *in.IsPrivate
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) Delete(ctx context.Context, actorID *uint, userID uint) error {
	if err := ownsProfile(actorID, userID); err != nil {
		return err
	}
	return s.profiles.DeleteByUserID(ctx, userID)
}

// ListPublic pages through non-private profiles, newest first.
func (s *ProfileService) ListPublic(ctx context.Context, page, limit int, search string) (*models.PublicProfilesPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	profiles, total, err := s.profiles.ListPublic(ctx, search, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &models.PublicProfilesPage{
		Profiles:   profiles,
		Pagination: models.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *ProfileService) detail(ctx context.Context, user *models.User) (*models.ProfileDetail, error) {
	counts, err := s.users.Counts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &models.ProfileDetail{
		Profile:        *user.Profile,
		User:           user.Summary(),
		FollowerCount:  counts.Followers,
		FollowingCount: counts.Following,
		PostCount:      counts.Posts,
	}, nil
}

// ownsProfile rejects authenticated callers editing someone else's profile.
func ownsProfile(actorID *uint, userID uint) error {
	if actorID != nil && *actorID != userID {
		return models.NewForbiddenError("You can only modify your own profile")
	}
	return nil
}
