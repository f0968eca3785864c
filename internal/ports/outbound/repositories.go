package outbound

import (
	"context"

	"campus-marketplace/internal/domain/history"
	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/pickup"
	"campus-marketplace/internal/domain/recommend"
	"campus-marketplace/internal/domain/saved"
	"campus-marketplace/internal/domain/search"
	"campus-marketplace/internal/domain/shared"

	"github.com/google/uuid"
)

// ItemRepository defines the interface for item data operations
type ItemRepository interface {
	// Create creates a new item
	Create(ctx context.Context, item *item.Item) error

	// GetByID retrieves an item by ID
	GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error)

	// Update updates the seller-editable fields of an item
	Update(ctx context.Context, item *item.Item) error

	// Delete deletes an item
	Delete(ctx context.Context, id uuid.UUID) error

	// Search runs a normalized, validated query spec
	Search(ctx context.Context, spec search.Spec) ([]*item.Item, error)

	// Recommend runs a recommendation plan, newest first
	Recommend(ctx context.Context, plan recommend.Plan) ([]*item.Item, error)

	// ListRecent retrieves the newest items
	ListRecent(ctx context.Context, limit int) ([]*item.Item, error)

	// ListAll retrieves every item, newest first
	ListAll(ctx context.Context) ([]*item.Item, error)

	// ListByOwner retrieves the items listed by a user
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*item.Item, error)

	// ListByIDs retrieves the given items, newest first
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*item.Item, error)
}

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	// GetByID retrieves a profile by user ID
	GetByID(ctx context.Context, id uuid.UUID) (*shared.Profile, error)

	// Create creates a profile, doing nothing if it already exists
	Create(ctx context.Context, profile *shared.Profile) error

	// Update updates a profile
	Update(ctx context.Context, profile *shared.Profile) error

	// List retrieves every profile, newest first
	List(ctx context.Context) ([]*shared.Profile, error)

	// Count returns the number of profiles
	Count(ctx context.Context) (int, error)
}

// SavedItemRepository defines the interface for saved item data operations
type SavedItemRepository interface {
	// ListItemIDs retrieves the ids of the items a user saved
	ListItemIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// Exists checks whether a user saved an item
	Exists(ctx context.Context, userID, itemID uuid.UUID) (bool, error)

	// Insert saves an item for a user; saving twice keeps a single row
	Insert(ctx context.Context, saved *saved.SavedItem) error

	// Delete removes a user's saved item
	Delete(ctx context.Context, userID, itemID uuid.UUID) error

	// DeleteByItem removes every saved row referencing an item
	DeleteByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
}

// SearchHistoryRepository defines the interface for search history data operations
type SearchHistoryRepository interface {
	// Append stores a new entry
	Append(ctx context.Context, entry *history.Entry) error

	// Recent retrieves the newest entries of a user
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*history.Entry, error)
}

// PickupPointRepository defines the interface for pickup point data operations
type PickupPointRepository interface {
	// List retrieves pickup points matching the query
	List(ctx context.Context, query pickup.Query, limit int) ([]*pickup.Point, error)
}
