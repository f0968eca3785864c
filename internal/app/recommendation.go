package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/recommend"
	"campus-marketplace/internal/domain/shared"
	"campus-marketplace/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// DefaultRecommendationTTL matches how long a client treats recommendations as fresh
const DefaultRecommendationTTL = 5 * time.Minute

// RecommendationService implements the recommendation composer
type RecommendationService struct {
	itemRepo    outbound.ItemRepository
	profileRepo outbound.ProfileRepository
	historyRepo outbound.SearchHistoryRepository
	cache       outbound.Cache
	ttl         time.Duration
	logger      zerolog.Logger
}

type RecommendationServiceParams struct {
	ItemRepo    outbound.ItemRepository
	ProfileRepo outbound.ProfileRepository
	HistoryRepo outbound.SearchHistoryRepository
	Cache       outbound.Cache
	TTL         time.Duration
	Logger      zerolog.Logger
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(params RecommendationServiceParams) *RecommendationService {
	ttl := params.TTL
	if ttl <= 0 {
		ttl = DefaultRecommendationTTL
	}
	return &RecommendationService{
		itemRepo:    params.ItemRepo,
		profileRepo: params.ProfileRepo,
		historyRepo: params.HistoryRepo,
		cache:       params.Cache,
		ttl:         ttl,
		logger:      params.Logger.With().Str("component", "recommendation_service").Logger(),
	}
}

func recommendationKey(sess *shared.Session) string {
	return fmt.Sprintf("recommendations:%s", sess.UserID.String())
}

// Recommend builds a short list of items for the session's user. Anonymous callers
// and store failures both yield an empty list; failures are only logged.
func (service *RecommendationService) Recommend(ctx context.Context, sess *shared.Session) ([]*item.Item, error) {
	if !sess.Authenticated() {
		return []*item.Item{}, nil
	}

	key := recommendationKey(sess)
	if service.cache != nil {
		var cached []*item.Item
		found, err := service.cache.Get(ctx, key, &cached)
		if err != nil {
			service.logger.Warn().Err(err).Str("user_id", sess.UserID.String()).Msg("Failed to read recommendation cache")
		} else if found {
			service.logger.Debug().Str("user_id", sess.UserID.String()).Int("count", len(cached)).Msg("Serving cached recommendations")
			return cached, nil
		}
	}

	plan, err := service.plan(ctx, sess)
	if err != nil {
		service.logger.Error().Err(err).Str("user_id", sess.UserID.String()).Msg("Failed to build recommendation plan")
		return []*item.Item{}, nil
	}

	items, err := service.itemRepo.Recommend(ctx, plan)
	if err != nil {
		service.logger.Error().Err(err).Str("user_id", sess.UserID.String()).Msg("Error fetching recommendations")
		return []*item.Item{}, nil
	}
	if items == nil {
		items = []*item.Item{}
	}

	service.logger.Debug().
		Str("user_id", sess.UserID.String()).
		Strs("keywords", plan.Keywords).
		Str("affiliation", plan.Affiliation).
		Int("count", len(items)).
		Msg("Recommendations composed")

	if service.cache != nil {
		if err := service.cache.Set(ctx, key, items, service.ttl); err != nil {
			service.logger.Warn().Err(err).Str("user_id", sess.UserID.String()).Msg("Failed to cache recommendations")
		}
	}

	return items, nil
}

func (service *RecommendationService) plan(ctx context.Context, sess *shared.Session) (recommend.Plan, error) {
	entries, err := service.historyRepo.Recent(ctx, sess.UserID, recommend.HistoryDepth)
	if err != nil {
		return recommend.Plan{}, fmt.Errorf("failed to read search history: %w", err)
	}
	queries := make([]string, 0, len(entries))
	for _, e := range entries {
		queries = append(queries, e.Query)
	}

	profile, err := service.profileRepo.GetByID(ctx, sess.UserID)
	if err != nil && !errors.Is(err, shared.ErrProfileNotFound) {
		return recommend.Plan{}, fmt.Errorf("failed to read profile: %w", err)
	}

	return recommend.NewPlan(queries, profile.AffiliationOrEmpty()), nil
}
