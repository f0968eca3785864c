package http

import (
	"time"

	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/pickup"
	"campus-marketplace/internal/domain/saved"

	"github.com/dustin/go-humanize"
)

// ItemCard is an item as rendered in lists and on the detail page
type ItemCard struct {
	*item.Item
	PriceLabel string `json:"price_label"`
	Listed     string `json:"listed"`
	Saved      *bool  `json:"saved,omitempty"`
}

type PickupCard struct {
	*pickup.Point
	MapsURL string `json:"maps_url"`
}

func priceLabel(price float64) string {
	return "$" + humanize.FormatFloat("#,###.##", price)
}

func listedLabel(created, now time.Time) string {
	return humanize.RelTime(created, now, "ago", "from now")
}

func newItemCard(it *item.Item, now time.Time) ItemCard {
	return ItemCard{
		Item:       it,
		PriceLabel: priceLabel(it.Price),
		Listed:     listedLabel(it.CreatedAt, now),
	}
}

// newItemCards renders items; when set is non-nil every card carries its saved flag
func newItemCards(items []*item.Item, set *saved.Set, now time.Time) []ItemCard {
	cards := make([]ItemCard, 0, len(items))
	for _, it := range items {
		card := newItemCard(it, now)
		if set != nil {
			isSaved := set.Has(it.ID)
			card.Saved = &isSaved
		}
		cards = append(cards, card)
	}
	return cards
}

func newPickupCards(points []*pickup.Point) []PickupCard {
	cards := make([]PickupCard, 0, len(points))
	for _, p := range points {
		cards = append(cards, PickupCard{Point: p, MapsURL: pickup.MapsURL(p)})
	}
	return cards
}
