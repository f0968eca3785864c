package app

import (
	"context"
	"time"

	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/shared"
	"campus-marketplace/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// AdminService implements moderation use cases
type AdminService struct {
	itemRepo    outbound.ItemRepository
	savedRepo   outbound.SavedItemRepository
	profileRepo outbound.ProfileRepository
	broadcaster outbound.Broadcaster
	now         func() time.Time
	logger      zerolog.Logger
}

type AdminServiceParams struct {
	ItemRepo    outbound.ItemRepository
	SavedRepo   outbound.SavedItemRepository
	ProfileRepo outbound.ProfileRepository
	Broadcaster outbound.Broadcaster
	Logger      zerolog.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(params AdminServiceParams) *AdminService {
	return &AdminService{
		itemRepo:    params.ItemRepo,
		savedRepo:   params.SavedRepo,
		profileRepo: params.ProfileRepo,
		broadcaster: params.Broadcaster,
		now:         time.Now,
		logger:      params.Logger.With().Str("component", "admin_service").Logger(),
	}
}

func (service *AdminService) authorize(sess *shared.Session) error {
	if !sess.Authenticated() {
		return shared.ErrAuthRequired
	}
	if !sess.IsAdmin() {
		service.logger.Warn().Str("user_id", sess.UserID.String()).Msg("Non-admin tried to use moderation")
		return shared.ErrForbidden
	}
	return nil
}

// ListItems retrieves every item, newest first
func (service *AdminService) ListItems(ctx context.Context, sess *shared.Session) ([]*item.Item, error) {
	if err := service.authorize(sess); err != nil {
		return nil, err
	}

	items, err := service.itemRepo.ListAll(ctx)
	if err != nil {
		service.logger.Error().Err(err).Msg("Error fetching items")
		return nil, err
	}
	return items, nil
}

// ListUsers retrieves every profile
func (service *AdminService) ListUsers(ctx context.Context, sess *shared.Session) ([]*shared.Profile, error) {
	if err := service.authorize(sess); err != nil {
		return nil, err
	}

	profiles, err := service.profileRepo.List(ctx)
	if err != nil {
		service.logger.Error().Err(err).Msg("Error fetching users")
		return nil, err
	}
	return profiles, nil
}

// Stats summarises the catalog. Items and user count are read concurrently.
func (service *AdminService) Stats(ctx context.Context, sess *shared.Session) (*shared.MarketplaceStats, error) {
	if err := service.authorize(sess); err != nil {
		return nil, err
	}

	var (
		items     []*item.Item
		userCount int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = service.itemRepo.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		userCount, err = service.profileRepo.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		service.logger.Error().Err(err).Msg("Failed to compute marketplace stats")
		return nil, err
	}

	return computeStats(items, userCount, service.now()), nil
}

func computeStats(items []*item.Item, userCount int, now time.Time) *shared.MarketplaceStats {
	stats := &shared.MarketplaceStats{
		ItemCount:  len(items),
		UserCount:  userCount,
		ByCategory: make(map[string]int),
	}
	weekAgo := now.Add(-7 * 24 * time.Hour)
	for _, it := range items {
		stats.TotalValue += it.Price
		stats.ByCategory[string(it.Category)]++
		if it.CreatedAt.After(weekAgo) {
			stats.ListedLast7d++
		}
	}
	if len(items) > 0 {
		stats.AveragePrice = stats.TotalValue / float64(len(items))
	}
	return stats
}

// DeleteItem removes saved references to an item, then the item. There is no
// confirmation step and no audit trail.
func (service *AdminService) DeleteItem(ctx context.Context, sess *shared.Session, itemID uuid.UUID) error {
	if err := service.authorize(sess); err != nil {
		return err
	}

	service.logger.Info().Str("item_id", itemID.String()).Str("admin_id", sess.UserID.String()).Msg("Deleting item")

	if err := deleteItemCascade(ctx, service.itemRepo, service.savedRepo, itemID, service.logger); err != nil {
		return err
	}

	if service.broadcaster != nil {
		event := outbound.Event{
			Type:      outbound.EventTypeItemDeleted,
			ItemID:    itemID,
			Data:      map[string]interface{}{"id": itemID.String()},
			Timestamp: service.now().Unix(),
		}
		if err := service.broadcaster.Publish(ctx, outbound.TopicItems, event); err != nil {
			service.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("Failed to broadcast item deletion")
		}
	}
	return nil
}
