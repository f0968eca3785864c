package db

import (
	"testing"

	"campus-marketplace/internal/domain/pickup"
	"campus-marketplace/internal/domain/recommend"
	"campus-marketplace/internal/domain/search"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func price(v float64) *float64 { return &v }

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\temp`, escapeLike(`c:\temp`))
	assert.Equal(t, "%lamp%", containsPattern("lamp"))
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name      string
		spec      search.Spec
		wantQuery string
		wantArgs  []interface{}
	}{
		{
			name:      "no filters",
			spec:      search.Spec{}.Normalize(),
			wantQuery: "SELECT " + itemColumns + " FROM items ORDER BY created_at DESC",
		},
		{
			name: "all filters",
			spec: search.Spec{
				Term:     "calc",
				Category: "textbooks",
				MinPrice: price(0),
				MaxPrice: price(100),
				Sort:     search.SortPriceAsc,
			}.Normalize(),
			wantQuery: "SELECT " + itemColumns + " FROM items WHERE title ILIKE $1 AND category = $2 AND price >= $3 AND price <= $4 ORDER BY price ASC, created_at DESC",
			wantArgs:  []interface{}{"%calc%", "Textbooks", 0.0, 100.0},
		},
		{
			name:      "all categories is no filter",
			spec:      search.Spec{Category: "All Categories", Sort: search.SortOldest}.Normalize(),
			wantQuery: "SELECT " + itemColumns + " FROM items ORDER BY created_at ASC",
		},
		{
			name:      "wildcards are literal",
			spec:      search.Spec{Term: "50%_off", Sort: search.SortPriceDesc}.Normalize(),
			wantQuery: "SELECT " + itemColumns + " FROM items WHERE title ILIKE $1 ORDER BY price DESC, created_at DESC",
			wantArgs:  []interface{}{`%50\%\_off%`},
		},
		{
			name:      "relevance orders by recency",
			spec:      search.Spec{MaxPrice: price(20), Sort: search.SortRelevance}.Normalize(),
			wantQuery: "SELECT " + itemColumns + " FROM items WHERE price <= $1 ORDER BY created_at DESC",
			wantArgs:  []interface{}{20.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildSearchQuery(tt.spec)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildRecommendQuery(t *testing.T) {
	t.Run("keywords and affiliation", func(t *testing.T) {
		plan := recommend.NewPlan([]string{"Calculus book"}, "Stanford")
		query, args := buildRecommendQuery(plan)

		assert.Equal(t, "SELECT "+itemColumns+" FROM items WHERE title ILIKE ANY($1) OR category ILIKE ANY($1) OR location ILIKE $2 ORDER BY created_at DESC LIMIT $3", query)
		assert.Len(t, args, 3)
		assert.Equal(t, pq.Array([]string{"%calculus%", "%book%"}), args[0])
		assert.Equal(t, "%Stanford%", args[1])
		assert.Equal(t, recommend.Limit, args[2])
	})

	t.Run("no signals", func(t *testing.T) {
		query, args := buildRecommendQuery(recommend.NewPlan(nil, ""))
		assert.Equal(t, "SELECT "+itemColumns+" FROM items ORDER BY created_at DESC LIMIT $1", query)
		assert.Equal(t, []interface{}{recommend.Limit}, args)
	})
}

func TestBuildPickupQuery(t *testing.T) {
	query, args := buildPickupQuery(pickup.Query{Affiliation: "Stanford", ItemLocation: "Library"}, 3)
	assert.Equal(t, "SELECT id, name, location, description, coordinates, affiliation FROM pickup_points WHERE (affiliation ILIKE $1 OR location ILIKE $1) ORDER BY name ASC LIMIT $2", query)
	assert.Equal(t, []interface{}{"%Stanford%", 3}, args)

	query, args = buildPickupQuery(pickup.Query{ItemLocation: "Library"}, 3)
	assert.Equal(t, "SELECT id, name, location, description, coordinates, affiliation FROM pickup_points WHERE location ILIKE $1 ORDER BY name ASC LIMIT $2", query)
	assert.Equal(t, []interface{}{"%Library%", 3}, args)

	query, args = buildPickupQuery(pickup.Query{}, 3)
	assert.Equal(t, "SELECT id, name, location, description, coordinates, affiliation FROM pickup_points ORDER BY name ASC LIMIT $1", query)
	assert.Equal(t, []interface{}{3}, args)
}
