package pickup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapsURL(t *testing.T) {
	coords := "-1.2921,36.8219"
	blank := "  "

	tests := []struct {
		name  string
		point Point
		want  string
	}{
		{
			name:  "coordinates preferred",
			point: Point{Name: "Main Gate", Location: "North Campus", Coordinates: &coords},
			want:  "https://www.google.com/maps/search/?api=1&query=-1.2921%2C36.8219",
		},
		{
			name:  "name and location fallback",
			point: Point{Name: "Library Lobby", Location: "Central Campus"},
			want:  "https://www.google.com/maps/search/?api=1&query=Library+Lobby%2C+Central+Campus",
		},
		{
			name:  "blank coordinates ignored",
			point: Point{Name: "Gym", Location: "East", Coordinates: &blank},
			want:  "https://www.google.com/maps/search/?api=1&query=Gym%2C+East",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapsURL(&tt.point))
		})
	}
}
