package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"campus-marketplace/internal/domain/shared"
	"campus-marketplace/internal/ports/inbound"
	"campus-marketplace/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// ProfileService implements profile use cases
type ProfileService struct {
	profileRepo outbound.ProfileRepository
	cache       outbound.Cache
	now         func() time.Time
	logger      zerolog.Logger
}

type ProfileServiceParams struct {
	ProfileRepo outbound.ProfileRepository
	// Cache holds recommendations built from the profile; optional
	Cache       outbound.Cache
	Logger      zerolog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(params ProfileServiceParams) *ProfileService {
	return &ProfileService{
		profileRepo: params.ProfileRepo,
		cache:       params.Cache,
		now:         time.Now,
		logger:      params.Logger.With().Str("component", "profile_service").Logger(),
	}
}

// GetProfile retrieves the session user's profile. Signup happens at the identity
// provider, so the profile row is created the first time it is asked for.
func (service *ProfileService) GetProfile(ctx context.Context, sess *shared.Session) (*shared.Profile, error) {
	if !sess.Authenticated() {
		return nil, shared.ErrAuthRequired
	}

	profile, err := service.profileRepo.GetByID(ctx, sess.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, shared.ErrProfileNotFound) {
		service.logger.Error().Err(err).Str("user_id", sess.UserID.String()).Msg("Failed to retrieve profile")
		return nil, err
	}

	profile = &shared.Profile{
		ID:          sess.UserID,
		DisplayName: displayNameFromEmail(sess.Email),
		CreatedAt:   service.now().UTC(),
	}
	if err := service.profileRepo.Create(ctx, profile); err != nil {
		service.logger.Error().Err(err).Str("user_id", sess.UserID.String()).Msg("Failed to create profile")
		return nil, err
	}

	service.logger.Info().Str("user_id", sess.UserID.String()).Msg("Profile created on first use")
	return profile, nil
}

// UpdateProfile changes the session user's profile
func (service *ProfileService) UpdateProfile(ctx context.Context, sess *shared.Session, req inbound.UpdateProfileRequest) (*shared.Profile, error) {
	profile, err := service.GetProfile(ctx, sess)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, shared.ErrDisplayNameRequired
	}
	profile.DisplayName = name
	profile.Phone = trimmedOrNil(req.Phone)
	profile.Affiliation = trimmedOrNil(req.Affiliation)

	if err := service.profileRepo.Update(ctx, profile); err != nil {
		service.logger.Error().Err(err).Str("user_id", sess.UserID.String()).Msg("Failed to update profile")
		return nil, err
	}

	// recommendations lean on the affiliation, drop the ones built from the old one
	if service.cache != nil {
		if err := service.cache.Delete(ctx, recommendationKey(sess)); err != nil {
			service.logger.Warn().Err(err).Str("user_id", sess.UserID.String()).Msg("Failed to drop cached recommendations")
		}
	}

	service.logger.Info().Str("user_id", sess.UserID.String()).Msg("Profile updated successfully")
	return profile, nil
}

func displayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "Student"
	}
	return local
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
