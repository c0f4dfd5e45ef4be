package service

import (
	"context"
	"strings"

	"gymvy/internal/models"
	"gymvy/internal/repository"
)

// PushTokenService registers device addresses for push delivery.
type PushTokenService struct {
	tokens repository.PushTokenRepository
	users  repository.UserRepository
}

func NewPushTokenService(tokens repository.PushTokenRepository, users repository.UserRepository) *PushTokenService {
	return &PushTokenService{tokens: tokens, users: users}
}

// Register upserts token for the user with supabaseID.
func (s *PushTokenService) Register(ctx context.Context, supabaseID, token, platform string) (*models.PushToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, models.NewValidationError("Token is required")
	}
	user, err := s.users.GetBySupabaseID(ctx, supabaseID)
	if err != nil {
		return nil, err
	}
	return s.tokens.Upsert(ctx, user.ID, token, strings.TrimSpace(platform))
}

// Remove deletes token if it exists.
func (s *PushTokenService) Remove(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.NewValidationError("Token is required")
	}
	_, err := s.tokens.DeleteByToken(ctx, token)
	return err
}

// ListForUser returns token metadata with the token values stripped.
func (s *PushTokenService) ListForUser(ctx context.Context, supabaseID string) ([]*models.PushToken, error) {
	user, err := s.users.GetBySupabaseID(ctx, supabaseID)
	if err != nil {
		return nil, err
	}
	tokens, err := s.tokens.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, t := range tokens {
		t.Token = ""
	}
	return tokens, nil
}
