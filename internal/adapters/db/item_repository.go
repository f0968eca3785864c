package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/recommend"
	"campus-marketplace/internal/domain/search"
	"campus-marketplace/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ItemRepository implements the item repository interface
type ItemRepository struct {
	conn *Connection
}

// NewItemRepository creates a new item repository
func NewItemRepository(conn *Connection) *ItemRepository {
	return &ItemRepository{conn: conn}
}

// Create creates a new item
func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	query := `
		INSERT INTO items (id, title, price, category, description, location, image_url, contact_phone, user_id, created_at)
		VALUES (:id, :title, :price, :category, :description, :location, :image_url, :contact_phone, :user_id, :created_at)
	`

	if _, err := r.conn.GetDB().NamedExecContext(ctx, query, it); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	var it item.Item
	if err := r.conn.GetDB().GetContext(ctx, &it, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return &it, nil
}

// Update updates the seller-editable fields of an item
func (r *ItemRepository) Update(ctx context.Context, it *item.Item) error {
	query := `
		UPDATE items
		SET title = $2, price = $3, category = $4, description = $5, location = $6, image_url = $7, contact_phone = $8
		WHERE id = $1
	`

	result, err := r.conn.GetDB().ExecContext(ctx, query,
		it.ID,
		it.Title,
		it.Price,
		string(it.Category),
		it.Description,
		it.Location,
		it.ImageURL,
		it.ContactPhone,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrItemNotFound
	}

	return nil
}

// Delete deletes an item
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM items WHERE id = $1`

	result, err := r.conn.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrItemNotFound
	}

	return nil
}

// Search runs a normalized, validated query spec
func (r *ItemRepository) Search(ctx context.Context, spec search.Spec) ([]*item.Item, error) {
	query, args := buildSearchQuery(spec)
	items, err := r.selectItems(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return items, nil
}

// Recommend runs a recommendation plan, newest first
func (r *ItemRepository) Recommend(ctx context.Context, plan recommend.Plan) ([]*item.Item, error) {
	query, args := buildRecommendQuery(plan)
	items, err := r.selectItems(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommendations: %w", err)
	}
	return items, nil
}

// ListRecent retrieves the newest items
func (r *ItemRepository) ListRecent(ctx context.Context, limit int) ([]*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC LIMIT $1`
	items, err := r.selectItems(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent items: %w", err)
	}
	return items, nil
}

// ListAll retrieves every item, newest first
func (r *ItemRepository) ListAll(ctx context.Context) ([]*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC`
	items, err := r.selectItems(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// ListByOwner retrieves the items listed by a user
func (r *ItemRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE user_id = $1 ORDER BY created_at DESC`
	items, err := r.selectItems(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by owner: %w", err)
	}
	return items, nil
}

// ListByIDs retrieves the given items, newest first
func (r *ItemRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*item.Item, error) {
	if len(ids) == 0 {
		return []*item.Item{}, nil
	}

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ANY($1::uuid[]) ORDER BY created_at DESC`
	items, err := r.selectItems(ctx, query, pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("failed to list items by id: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) selectItems(ctx context.Context, query string, args ...interface{}) ([]*item.Item, error) {
	items := []*item.Item{}
	if err := r.conn.GetDB().SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrDatabaseQuery, err)
	}
	return items, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
