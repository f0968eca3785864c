package db

import (
	"campus-marketplace/internal/ports/outbound"
)

// RepositoryFactory creates and manages all database repositories
type RepositoryFactory struct {
	conn *Connection
}

// Repositories groups every repository for dependency injection
type Repositories struct {
	Items   outbound.ItemRepository
	Profile outbound.ProfileRepository
	Saved   outbound.SavedItemRepository
	History outbound.SearchHistoryRepository
	Pickup  outbound.PickupPointRepository
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(conn *Connection) *RepositoryFactory {
	return &RepositoryFactory{conn: conn}
}

// GetItemRepository returns the item repository
func (f *RepositoryFactory) GetItemRepository() outbound.ItemRepository {
	return NewItemRepository(f.conn)
}

// GetProfileRepository returns the profile repository
func (f *RepositoryFactory) GetProfileRepository() outbound.ProfileRepository {
	return NewProfileRepository(f.conn)
}

// GetSavedItemRepository returns the saved item repository
func (f *RepositoryFactory) GetSavedItemRepository() outbound.SavedItemRepository {
	return NewSavedItemRepository(f.conn)
}

// GetSearchHistoryRepository returns the search history repository
func (f *RepositoryFactory) GetSearchHistoryRepository() outbound.SearchHistoryRepository {
	return NewSearchHistoryRepository(f.conn)
}

// GetPickupPointRepository returns the pickup point repository
func (f *RepositoryFactory) GetPickupPointRepository() outbound.PickupPointRepository {
	return NewPickupPointRepository(f.conn)
}

// GetAllRepositories returns all repositories in a struct for easy dependency injection
func (f *RepositoryFactory) GetAllRepositories() Repositories {
	return Repositories{
		Items:   f.GetItemRepository(),
		Profile: f.GetProfileRepository(),
		Saved:   f.GetSavedItemRepository(),
		History: f.GetSearchHistoryRepository(),
		Pickup:  f.GetPickupPointRepository(),
	}
}
