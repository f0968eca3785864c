package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied in order; every statement is idempotent
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		display_name TEXT NOT NULL,
		phone TEXT,
		affiliation TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		location TEXT NOT NULL,
		image_url TEXT,
		contact_phone TEXT,
		user_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_created_at ON items (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_items_user_id ON items (user_id)`,
	`CREATE TABLE IF NOT EXISTS saved_items (
		user_id UUID NOT NULL,
		item_id UUID NOT NULL REFERENCES items (id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, item_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_items_item_id ON saved_items (item_id)`,
	`CREATE TABLE IF NOT EXISTS user_searches (
		id TEXT PRIMARY KEY,
		user_id UUID NOT NULL,
		search_query TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_searches_user_created ON user_searches (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS pickup_points (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		description TEXT,
		coordinates TEXT,
		affiliation TEXT
	)`,
}

// Migrate creates the schema inside a single transaction
func Migrate(ctx context.Context, conn *Connection) error {
	return conn.ExecuteTransaction(ctx, func(tx *sqlx.Tx) error {
		for i, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
			}
		}
		return nil
	})
}
