package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campus-marketplace/internal/domain/shared"

	"github.com/google/uuid"
)

const profileColumns = `id, display_name, phone, affiliation, created_at`

// ProfileRepository implements the profile repository interface
type ProfileRepository struct {
	conn *Connection
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(conn *Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

// GetByID retrieves a profile by user ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*shared.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var profile shared.Profile
	if err := r.conn.GetDB().GetContext(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// Create creates a profile, doing nothing if it already exists
func (r *ProfileRepository) Create(ctx context.Context, profile *shared.Profile) error {
	query := `
		INSERT INTO profiles (id, display_name, phone, affiliation, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		profile.ID,
		profile.DisplayName,
		profile.Phone,
		profile.Affiliation,
		profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// Update updates a profile
func (r *ProfileRepository) Update(ctx context.Context, profile *shared.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, phone = $3, affiliation = $4
		WHERE id = $1
	`

	result, err := r.conn.GetDB().ExecContext(ctx, query,
		profile.ID,
		profile.DisplayName,
		profile.Phone,
		profile.Affiliation,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrProfileNotFound
	}

	return nil
}

// List retrieves every profile, newest first
func (r *ProfileRepository) List(ctx context.Context) ([]*shared.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC`

	profiles := []*shared.Profile{}
	if err := r.conn.GetDB().SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}

// Count returns the number of profiles
func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.conn.GetDB().GetContext(ctx, &count, `SELECT COUNT(*) FROM profiles`); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}
