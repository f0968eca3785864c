package db

import (
	"context"
	"fmt"

	"campus-marketplace/internal/domain/pickup"
)

// PickupPointRepository implements the pickup point repository interface
type PickupPointRepository struct {
	conn *Connection
}

// NewPickupPointRepository creates a new pickup point repository
func NewPickupPointRepository(conn *Connection) *PickupPointRepository {
	return &PickupPointRepository{conn: conn}
}

// List retrieves pickup points matching the query. The caller's affiliation is
// matched against both affiliation and location; without it the item location is used.
func (r *PickupPointRepository) List(ctx context.Context, q pickup.Query, limit int) ([]*pickup.Point, error) {
	query, args := buildPickupQuery(q, limit)

	points := []*pickup.Point{}
	if err := r.conn.GetDB().SelectContext(ctx, &points, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list pickup points: %w", err)
	}

	return points, nil
}

func buildPickupQuery(q pickup.Query, limit int) (string, []interface{}) {
	b := &queryBuilder{}

	switch {
	case q.Affiliation != "":
		p := b.arg(containsPattern(q.Affiliation))
		b.where("(affiliation ILIKE " + p + " OR location ILIKE " + p + ")")
	case q.ItemLocation != "":
		b.where("location ILIKE " + b.arg(containsPattern(q.ItemLocation)))
	}

	query := "SELECT id, name, location, description, coordinates, affiliation FROM pickup_points" +
		b.whereClause(" AND ") + " ORDER BY name ASC LIMIT " + b.arg(limit)
	return query, b.args
}
