package inbound

import (
	"context"

	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/pickup"
	"campus-marketplace/internal/domain/saved"
	"campus-marketplace/internal/domain/search"
	"campus-marketplace/internal/domain/shared"

	"github.com/google/uuid"
)

// CatalogService defines the interface for browsing and listing items
type CatalogService interface {
	// Search runs a query spec and records the term for signed-in users
	Search(ctx context.Context, sess *shared.Session, spec search.Spec) ([]*item.Item, error)

	// GetItem retrieves an item by ID
	GetItem(ctx context.Context, itemID uuid.UUID) (*item.Item, error)

	// ListRecent retrieves the newest items
	ListRecent(ctx context.Context, limit int) ([]*item.Item, error)

	// ListMine retrieves the items listed by the session's user
	ListMine(ctx context.Context, sess *shared.Session) ([]*item.Item, error)

	// CreateListing creates an item owned by the session's user
	CreateListing(ctx context.Context, sess *shared.Session, req item.Listing) (*item.Item, error)

	// UpdateListing changes an item; owner or admin only
	UpdateListing(ctx context.Context, sess *shared.Session, itemID uuid.UUID, req item.Listing) (*item.Item, error)

	// DeleteListing removes an item and its saved references; owner or admin only
	DeleteListing(ctx context.Context, sess *shared.Session, itemID uuid.UUID) error
}

// SavedItemService defines the interface for the saved-items tracker
type SavedItemService interface {
	// Load retrieves the saved set of the session's user; anonymous callers get an empty set
	Load(ctx context.Context, sess *shared.Session) (*saved.Set, error)

	// IsSaved checks whether the session's user saved an item
	IsSaved(ctx context.Context, sess *shared.Session, itemID uuid.UUID) (bool, error)

	// Toggle flips the saved state of an item and updates set after the store succeeds.
	// It returns the new saved state.
	Toggle(ctx context.Context, sess *shared.Session, set *saved.Set, itemID uuid.UUID) (bool, error)

	// ListItems retrieves the saved items of the session's user
	ListItems(ctx context.Context, sess *shared.Session) ([]*item.Item, error)
}

// RecommendationService defines the interface for the recommendation composer
type RecommendationService interface {
	// Recommend builds a short list of items biased by recent searches and affiliation
	Recommend(ctx context.Context, sess *shared.Session) ([]*item.Item, error)
}

// AdminService defines the interface for moderation
type AdminService interface {
	// ListItems retrieves every item
	ListItems(ctx context.Context, sess *shared.Session) ([]*item.Item, error)

	// ListUsers retrieves every profile
	ListUsers(ctx context.Context, sess *shared.Session) ([]*shared.Profile, error)

	// Stats summarises the catalog
	Stats(ctx context.Context, sess *shared.Session) (*shared.MarketplaceStats, error)

	// DeleteItem removes saved references to an item, then the item
	DeleteItem(ctx context.Context, sess *shared.Session, itemID uuid.UUID) error
}

// ProfileService defines the interface for profile operations
type ProfileService interface {
	// GetProfile retrieves the session user's profile, creating it on first use
	GetProfile(ctx context.Context, sess *shared.Session) (*shared.Profile, error)

	// UpdateProfile changes the session user's profile
	UpdateProfile(ctx context.Context, sess *shared.Session, req UpdateProfileRequest) (*shared.Profile, error)
}

// PickupService defines the interface for pickup point suggestions
type PickupService interface {
	// List suggests pickup points for the caller and an optional item location
	List(ctx context.Context, sess *shared.Session, itemLocation string) ([]*pickup.Point, error)
}

// request to update a profile
type UpdateProfileRequest struct {
	DisplayName string  `json:"display_name"`
	Phone       *string `json:"phone,omitempty"`
	Affiliation *string `json:"affiliation,omitempty"`
}
