package pickup

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Limit caps how many pickup points are suggested for an item
const Limit = 3

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

// Point is a safe meeting place for handing over items. Reference data only.
type Point struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Location    string    `json:"location" db:"location"`
	Description *string   `json:"description,omitempty" db:"description"`
	Coordinates *string   `json:"coordinates,omitempty" db:"coordinates"`
	Affiliation *string   `json:"affiliation,omitempty" db:"affiliation"`
}

// Query narrows pickup points to the caller's campus or the item's location.
// Affiliation wins when both are set.
type Query struct {
	Affiliation  string
	ItemLocation string
}

// MapsURL builds an external map search link for the point
func MapsURL(p *Point) string {
	if p.Coordinates != nil && strings.TrimSpace(*p.Coordinates) != "" {
		return mapsSearchURL + url.QueryEscape(strings.TrimSpace(*p.Coordinates))
	}
	return mapsSearchURL + url.QueryEscape(p.Name+", "+p.Location)
}
