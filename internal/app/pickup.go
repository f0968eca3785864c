package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-marketplace/internal/domain/pickup"
	"campus-marketplace/internal/domain/shared"
	"campus-marketplace/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// DefaultPickupTTL is how long pickup point suggestions stay cached
const DefaultPickupTTL = time.Hour

// PickupService implements pickup point suggestions
type PickupService struct {
	pickupRepo  outbound.PickupPointRepository
	profileRepo outbound.ProfileRepository
	cache       outbound.Cache
	ttl         time.Duration
	logger      zerolog.Logger
}

type PickupServiceParams struct {
	PickupRepo  outbound.PickupPointRepository
	ProfileRepo outbound.ProfileRepository
	Cache       outbound.Cache
	TTL         time.Duration
	Logger      zerolog.Logger
}

// NewPickupService creates a new pickup service
func NewPickupService(params PickupServiceParams) *PickupService {
	ttl := params.TTL
	if ttl <= 0 {
		ttl = DefaultPickupTTL
	}
	return &PickupService{
		pickupRepo:  params.PickupRepo,
		profileRepo: params.ProfileRepo,
		cache:       params.Cache,
		ttl:         ttl,
		logger:      params.Logger.With().Str("component", "pickup_service").Logger(),
	}
}

// List suggests pickup points. The caller's affiliation takes priority over the
// item location. Failures are logged and yield an empty list.
func (service *PickupService) List(ctx context.Context, sess *shared.Session, itemLocation string) ([]*pickup.Point, error) {
	query := pickup.Query{ItemLocation: strings.TrimSpace(itemLocation)}

	if sess.Authenticated() {
		profile, err := service.profileRepo.GetByID(ctx, sess.UserID)
		if err != nil && !errors.Is(err, shared.ErrProfileNotFound) {
			service.logger.Warn().Err(err).Str("user_id", sess.UserID.String()).Msg("Failed to read profile for pickup points")
		}
		query.Affiliation = strings.TrimSpace(profile.AffiliationOrEmpty())
	}

	key := fmt.Sprintf("pickup:%s|%s", strings.ToLower(query.Affiliation), strings.ToLower(query.ItemLocation))
	if service.cache != nil {
		var cached []*pickup.Point
		if found, err := service.cache.Get(ctx, key, &cached); err != nil {
			service.logger.Warn().Err(err).Msg("Failed to read pickup cache")
		} else if found {
			return cached, nil
		}
	}

	points, err := service.pickupRepo.List(ctx, query, pickup.Limit)
	if err != nil {
		service.logger.Error().Err(err).Msg("Error fetching pickup points")
		return []*pickup.Point{}, nil
	}
	if points == nil {
		points = []*pickup.Point{}
	}

	if service.cache != nil {
		if err := service.cache.Set(ctx, key, points, service.ttl); err != nil {
			service.logger.Warn().Err(err).Msg("Failed to cache pickup points")
		}
	}
	return points, nil
}
