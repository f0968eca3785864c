package app

import (
	"context"
	"errors"
	"time"

	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/search"
	"campus-marketplace/internal/domain/shared"
	"campus-marketplace/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultRecentLimit = 8
	maxRecentLimit     = 50
)

// CatalogService implements browsing, searching and listing items
type CatalogService struct {
	itemRepo    outbound.ItemRepository
	savedRepo   outbound.SavedItemRepository
	recorder    outbound.HistoryRecorder
	broadcaster outbound.Broadcaster
	now         func() time.Time
	logger      zerolog.Logger
}

type CatalogServiceParams struct {
	ItemRepo    outbound.ItemRepository
	SavedRepo   outbound.SavedItemRepository
	Recorder    outbound.HistoryRecorder
	Broadcaster outbound.Broadcaster
	Logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(params CatalogServiceParams) *CatalogService {
	return &CatalogService{
		itemRepo:    params.ItemRepo,
		savedRepo:   params.SavedRepo,
		recorder:    params.Recorder,
		broadcaster: params.Broadcaster,
		now:         time.Now,
		logger:      params.Logger.With().Str("component", "catalog_service").Logger(),
	}
}

// Search runs a query spec. Every call issues exactly one store read unless the
// price bounds are inverted, in which case the result is empty without a read.
func (service *CatalogService) Search(ctx context.Context, sess *shared.Session, spec search.Spec) ([]*item.Item, error) {
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		service.logger.Warn().Err(err).Interface("spec", spec).Msg("Rejected search spec")
		return nil, err
	}

	if service.recorder != nil && spec.Term != "" {
		service.recorder.Record(sess, spec.Term)
	}

	if spec.Empty() {
		service.logger.Debug().Interface("spec", spec).Msg("Inverted price bounds, returning empty result")
		return []*item.Item{}, nil
	}

	items, err := service.itemRepo.Search(ctx, spec)
	if err != nil {
		service.logger.Error().Err(err).Interface("spec", spec).Msg("Failed to search items")
		return nil, err
	}

	service.logger.Debug().
		Str("term", spec.Term).
		Str("category", spec.Category).
		Str("sort", string(spec.Sort)).
		Int("results", len(items)).
		Msg("Search completed")

	return items, nil
}

// GetItem retrieves an item by ID
func (service *CatalogService) GetItem(ctx context.Context, itemID uuid.UUID) (*item.Item, error) {
	it, err := service.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if !errors.Is(err, shared.ErrItemNotFound) {
			service.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("Failed to retrieve item")
		}
		return nil, err
	}
	return it, nil
}

// ListRecent retrieves the newest items
func (service *CatalogService) ListRecent(ctx context.Context, limit int) ([]*item.Item, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	items, err := service.itemRepo.ListRecent(ctx, limit)
	if err != nil {
		service.logger.Error().Err(err).Int("limit", limit).Msg("Failed to list recent items")
		return nil, err
	}
	return items, nil
}

// ListMine retrieves the items listed by the session's user
func (service *CatalogService) ListMine(ctx context.Context, sess *shared.Session) ([]*item.Item, error) {
	if !sess.Authenticated() {
		return nil, shared.ErrAuthRequired
	}

	items, err := service.itemRepo.ListByOwner(ctx, sess.UserID)
	if err != nil {
		service.logger.Error().Err(err).Str("user_id", sess.UserID.String()).Msg("Failed to list own items")
		return nil, err
	}
	return items, nil
}

// CreateListing creates an item and announces it on the live feed
func (service *CatalogService) CreateListing(ctx context.Context, sess *shared.Session, req item.Listing) (*item.Item, error) {
	if !sess.Authenticated() {
		service.logger.Warn().Msg("Anonymous caller tried to create a listing")
		return nil, shared.ErrAuthRequired
	}

	category, err := req.Validate()
	if err != nil {
		service.logger.Warn().Err(err).Str("user_id", sess.UserID.String()).Msg("Invalid listing")
		return nil, err
	}

	it := &item.Item{
		ID:        uuid.New(),
		UserID:    sess.UserID,
		CreatedAt: service.now().UTC(),
	}
	req.Apply(it, category)

	if err := service.itemRepo.Create(ctx, it); err != nil {
		service.logger.Error().Err(err).Str("item_id", it.ID.String()).Msg("Failed to save item to database")
		return nil, err
	}

	service.logger.Info().
		Str("item_id", it.ID.String()).
		Str("user_id", it.UserID.String()).
		Str("category", string(it.Category)).
		Float64("price", it.Price).
		Msg("Listing created successfully")

	service.publish(ctx, outbound.EventTypeItemCreated, it)

	return it, nil
}

// UpdateListing changes an item; owner or admin only
func (service *CatalogService) UpdateListing(ctx context.Context, sess *shared.Session, itemID uuid.UUID, req item.Listing) (*item.Item, error) {
	if !sess.Authenticated() {
		return nil, shared.ErrAuthRequired
	}

	it, err := service.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !it.Editable(sess) {
		service.logger.Warn().
			Str("item_id", itemID.String()).
			Str("user_id", sess.UserID.String()).
			Msg("User is not allowed to edit item")
		return nil, shared.ErrForbidden
	}

	category, err := req.Validate()
	if err != nil {
		return nil, err
	}
	req.Apply(it, category)

	if err := service.itemRepo.Update(ctx, it); err != nil {
		service.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("Failed to update item")
		return nil, err
	}

	service.logger.Info().Str("item_id", itemID.String()).Msg("Listing updated successfully")
	return it, nil
}

// DeleteListing removes an item and its saved references; owner or admin only
func (service *CatalogService) DeleteListing(ctx context.Context, sess *shared.Session, itemID uuid.UUID) error {
	if !sess.Authenticated() {
		return shared.ErrAuthRequired
	}

	it, err := service.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !it.Editable(sess) {
		return shared.ErrForbidden
	}

	if err := deleteItemCascade(ctx, service.itemRepo, service.savedRepo, itemID, service.logger); err != nil {
		return err
	}

	service.publish(ctx, outbound.EventTypeItemDeleted, it)
	return nil
}

func (service *CatalogService) publish(ctx context.Context, eventType outbound.EventType, it *item.Item) {
	if service.broadcaster == nil {
		return
	}

	event := outbound.Event{
		Type:      eventType,
		ItemID:    it.ID,
		Data:      itemEventData(it),
		Timestamp: service.now().Unix(),
	}
	if err := service.broadcaster.Publish(ctx, outbound.TopicItems, event); err != nil {
		service.logger.Error().Err(err).Str("item_id", it.ID.String()).Str("event_type", string(eventType)).Msg("Failed to broadcast item event")
	}
}

// itemEventData flattens an item for the live feed
func itemEventData(it *item.Item) map[string]interface{} {
	data := map[string]interface{}{
		"id":          it.ID.String(),
		"title":       it.Title,
		"price":       it.Price,
		"category":    string(it.Category),
		"description": it.Description,
		"location":    it.Location,
		"user_id":     it.UserID.String(),
		"created_at":  it.CreatedAt.Format(time.RFC3339Nano),
	}
	if it.ImageURL != nil {
		data["image_url"] = *it.ImageURL
	}
	return data
}

// deleteItemCascade removes saved references first, then the item row. A failure to
// clear saved references is logged and does not stop the item delete.
func deleteItemCascade(ctx context.Context, itemRepo outbound.ItemRepository, savedRepo outbound.SavedItemRepository, itemID uuid.UUID, logger zerolog.Logger) error {
	removed, err := savedRepo.DeleteByItem(ctx, itemID)
	if err != nil {
		logger.Error().Err(err).Str("item_id", itemID.String()).Msg("Failed to delete saved references, deleting item anyway")
	} else {
		logger.Debug().Str("item_id", itemID.String()).Int64("saved_rows", removed).Msg("Deleted saved references")
	}

	if err := itemRepo.Delete(ctx, itemID); err != nil {
		if !errors.Is(err, shared.ErrItemNotFound) {
			logger.Error().Err(err).Str("item_id", itemID.String()).Msg("Failed to delete item")
		}
		return err
	}

	logger.Info().Str("item_id", itemID.String()).Msg("Item deleted successfully")
	return nil
}
