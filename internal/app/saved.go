package app

import (
	"context"
	"time"

	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/saved"
	"campus-marketplace/internal/domain/shared"
	"campus-marketplace/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SavedItemService implements the saved-items tracker
type SavedItemService struct {
	savedRepo outbound.SavedItemRepository
	itemRepo  outbound.ItemRepository
	now       func() time.Time
	logger    zerolog.Logger
}

type SavedItemServiceParams struct {
	SavedRepo outbound.SavedItemRepository
	ItemRepo  outbound.ItemRepository
	Logger    zerolog.Logger
}

// NewSavedItemService creates a new saved item service
func NewSavedItemService(params SavedItemServiceParams) *SavedItemService {
	return &SavedItemService{
		savedRepo: params.SavedRepo,
		itemRepo:  params.ItemRepo,
		now:       time.Now,
		logger:    params.Logger.With().Str("component", "saved_item_service").Logger(),
	}
}

// Load retrieves the saved set of the session's user
func (service *SavedItemService) Load(ctx context.Context, sess *shared.Session) (*saved.Set, error) {
	if !sess.Authenticated() {
		return saved.NewSet(), nil
	}

	ids, err := service.savedRepo.ListItemIDs(ctx, sess.UserID)
	if err != nil {
		service.logger.Error().Err(err).Str("user_id", sess.UserID.String()).Msg("Failed to fetch saved items")
		return nil, err
	}
	return saved.NewSet(ids...), nil
}

// IsSaved checks whether the session's user saved an item
func (service *SavedItemService) IsSaved(ctx context.Context, sess *shared.Session, itemID uuid.UUID) (bool, error) {
	if !sess.Authenticated() {
		return false, nil
	}
	return service.savedRepo.Exists(ctx, sess.UserID, itemID)
}

// Toggle flips the saved state of an item. The set only changes after the store
// mutation succeeded, so it converges with the store on every success.
func (service *SavedItemService) Toggle(ctx context.Context, sess *shared.Session, set *saved.Set, itemID uuid.UUID) (bool, error) {
	if !sess.Authenticated() {
		service.logger.Warn().Str("item_id", itemID.String()).Msg("Anonymous caller tried to save an item")
		return false, shared.ErrAuthRequired
	}

	if set.Has(itemID) {
		if err := service.savedRepo.Delete(ctx, sess.UserID, itemID); err != nil {
			service.logger.Error().Err(err).Str("user_id", sess.UserID.String()).Str("item_id", itemID.String()).Msg("Failed to remove saved item")
			return true, err
		}
		set.Remove(itemID)

		service.logger.Info().Str("user_id", sess.UserID.String()).Str("item_id", itemID.String()).Msg("Item removed from saved items")
		return false, nil
	}

	row := &saved.SavedItem{
		UserID:    sess.UserID,
		ItemID:    itemID,
		CreatedAt: service.now().UTC(),
	}
	if err := service.savedRepo.Insert(ctx, row); err != nil {
		service.logger.Error().Err(err).Str("user_id", sess.UserID.String()).Str("item_id", itemID.String()).Msg("Failed to save item")
		return false, err
	}
	set.Add(itemID)

	service.logger.Info().Str("user_id", sess.UserID.String()).Str("item_id", itemID.String()).Msg("Item added to saved items")
	return true, nil
}

// ListItems retrieves the saved items of the session's user
func (service *SavedItemService) ListItems(ctx context.Context, sess *shared.Session) ([]*item.Item, error) {
	if !sess.Authenticated() {
		return nil, shared.ErrAuthRequired
	}

	ids, err := service.savedRepo.ListItemIDs(ctx, sess.UserID)
	if err != nil {
		service.logger.Error().Err(err).Str("user_id", sess.UserID.String()).Msg("Failed to fetch saved items")
		return nil, err
	}
	if len(ids) == 0 {
		return []*item.Item{}, nil
	}
	return service.itemRepo.ListByIDs(ctx, ids)
}
