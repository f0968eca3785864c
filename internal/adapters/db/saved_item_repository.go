package db

import (
	"context"
	"fmt"

	"campus-marketplace/internal/domain/saved"

	"github.com/google/uuid"
)

// SavedItemRepository implements the saved item repository interface
type SavedItemRepository struct {
	conn *Connection
}

// NewSavedItemRepository creates a new saved item repository
func NewSavedItemRepository(conn *Connection) *SavedItemRepository {
	return &SavedItemRepository{conn: conn}
}

// ListItemIDs retrieves the ids of the items a user saved
func (r *SavedItemRepository) ListItemIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT item_id FROM saved_items WHERE user_id = $1 ORDER BY created_at DESC`

	ids := []uuid.UUID{}
	if err := r.conn.GetDB().SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list saved items: %w", err)
	}

	return ids, nil
}

// Exists checks whether a user saved an item
func (r *SavedItemRepository) Exists(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM saved_items WHERE user_id = $1 AND item_id = $2)`

	var exists bool
	if err := r.conn.GetDB().GetContext(ctx, &exists, query, userID, itemID); err != nil {
		return false, fmt.Errorf("failed to check saved item: %w", err)
	}

	return exists, nil
}

// Insert saves an item for a user; saving twice keeps a single row
func (r *SavedItemRepository) Insert(ctx context.Context, s *saved.SavedItem) error {
	query := `
		INSERT INTO saved_items (user_id, item_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, item_id) DO NOTHING
	`

	if _, err := r.conn.GetDB().ExecContext(ctx, query, s.UserID, s.ItemID, s.CreatedAt); err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}

	return nil
}

// Delete removes a user's saved item
func (r *SavedItemRepository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	query := `DELETE FROM saved_items WHERE user_id = $1 AND item_id = $2`

	if _, err := r.conn.GetDB().ExecContext(ctx, query, userID, itemID); err != nil {
		return fmt.Errorf("failed to remove saved item: %w", err)
	}

	return nil
}

// DeleteByItem removes every saved row referencing an item
func (r *SavedItemRepository) DeleteByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	result, err := r.conn.GetDB().ExecContext(ctx, `DELETE FROM saved_items WHERE item_id = $1`, itemID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete saved references: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
