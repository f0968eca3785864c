package db

import (
	"context"
	"fmt"
	"time"

	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/pickup"
	"campus-marketplace/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SeedSellerID owns the demo catalog
var SeedSellerID = uuid.MustParse("5d1f0c52-8a3e-4c6b-9b6e-1f2a3b4c5d6e")

type seedItem struct {
	title    string
	price    float64
	category item.Category
	location string
	age      time.Duration
}

var seedItems = []seedItem{
	{"MacBook Pro 2019", 899.99, item.CategoryElectronics, "North Dorm", 48 * time.Hour},
	{"Calculus Textbook", 45, item.CategoryTextbooks, "Library", 5 * time.Hour},
	{"Desk Lamp", 15.50, item.CategoryDormEssentials, "West Campus", 24 * time.Hour},
	{"Basketball", 12.99, item.CategorySchoolSupplies, "Gym", 72 * time.Hour},
	{"Mini Fridge", 75, item.CategoryElectronics, "East Dorm", 2 * time.Hour},
	{"Physics Textbooks (Set)", 65, item.CategoryTextbooks, "Science Building", time.Hour},
	{"Wireless Headphones", 50, item.CategoryElectronics, "Student Union", 4 * time.Hour},
	{"Coffee Maker", 25, item.CategoryDormEssentials, "South Dorm", 6 * time.Hour},
}

func strPtr(s string) *string { return &s }

var seedPickupPoints = []pickup.Point{
	{Name: "Main Library Entrance", Location: "Library", Description: strPtr("Well lit, staffed until midnight"), Affiliation: strPtr("State University")},
	{Name: "Student Union Lobby", Location: "Student Union", Description: strPtr("Campus security desk on site"), Affiliation: strPtr("State University")},
	{Name: "Campus Police Station", Location: "North Dorm", Description: strPtr("Designated safe exchange zone"), Coordinates: strPtr("37.4275,-122.1697"), Affiliation: strPtr("State University")},
	{Name: "Science Building Atrium", Location: "Science Building", Affiliation: strPtr("State University")},
}

// SeedDemoData loads the demo catalog and pickup points
func SeedDemoData(ctx context.Context, conn *Connection, now time.Time) (int, error) {
	seeded := 0
	err := conn.ExecuteTransaction(ctx, func(tx *sqlx.Tx) error {
		seller := shared.Profile{ID: SeedSellerID, DisplayName: "Demo Seller", CreatedAt: now}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO profiles (id, display_name, phone, affiliation, created_at)
			VALUES (:id, :display_name, :phone, :affiliation, :created_at)
			ON CONFLICT (id) DO NOTHING`, &seller); err != nil {
			return fmt.Errorf("failed to seed seller profile: %w", err)
		}

		for _, s := range seedItems {
			it := item.Item{
				ID:          uuid.NewSHA1(SeedSellerID, []byte(s.title)),
				Title:       s.title,
				Price:       s.price,
				Category:    s.category,
				Description: s.title + " in good condition.",
				Location:    s.location,
				UserID:      SeedSellerID,
				CreatedAt:   now.Add(-s.age),
			}
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO items (id, title, price, category, description, location, image_url, contact_phone, user_id, created_at)
				VALUES (:id, :title, :price, :category, :description, :location, :image_url, :contact_phone, :user_id, :created_at)
				ON CONFLICT (id) DO NOTHING`, &it); err != nil {
				return fmt.Errorf("failed to seed item %q: %w", s.title, err)
			}
			seeded++
		}

		for _, p := range seedPickupPoints {
			p.ID = uuid.NewSHA1(SeedSellerID, []byte(p.Name))
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO pickup_points (id, name, location, description, coordinates, affiliation)
				VALUES (:id, :name, :location, :description, :coordinates, :affiliation)
				ON CONFLICT (id) DO NOTHING`, &p); err != nil {
				return fmt.Errorf("failed to seed pickup point %q: %w", p.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return seeded, nil
}
