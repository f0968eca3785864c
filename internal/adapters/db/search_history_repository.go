package db

import (
	"context"
	"fmt"
	"time"

	"campus-marketplace/internal/domain/history"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// historyRow is the stored form of an entry; the ulid is kept as its text encoding
type historyRow struct {
	ID        string    `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Query     string    `db:"search_query"`
	CreatedAt time.Time `db:"created_at"`
}

// SearchHistoryRepository implements the search history repository interface
type SearchHistoryRepository struct {
	conn *Connection
}

// NewSearchHistoryRepository creates a new search history repository
func NewSearchHistoryRepository(conn *Connection) *SearchHistoryRepository {
	return &SearchHistoryRepository{conn: conn}
}

// Append stores a new entry
func (r *SearchHistoryRepository) Append(ctx context.Context, entry *history.Entry) error {
	query := `
		INSERT INTO user_searches (id, user_id, search_query, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		entry.ID.String(),
		entry.UserID,
		entry.Query,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append search history: %w", err)
	}

	return nil
}

// Recent retrieves the newest entries of a user
func (r *SearchHistoryRepository) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*history.Entry, error) {
	query := `
		SELECT id, user_id, search_query, created_at
		FROM user_searches
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	var rows []historyRow
	if err := r.conn.GetDB().SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to read search history: %w", err)
	}

	entries := make([]*history.Entry, 0, len(rows))
	for _, row := range rows {
		id, err := ulid.Parse(row.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse search history id %q: %w", row.ID, err)
		}
		entries = append(entries, &history.Entry{
			ID:        id,
			UserID:    row.UserID,
			Query:     row.Query,
			CreatedAt: row.CreatedAt,
		})
	}

	return entries, nil
}
