package search

import (
	"math"
	"sort"
	"strings"

	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/shared"
)

// Sort is the result ordering requested by the caller
type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
	SortRelevance Sort = "relevance"
)

// ParseSort resolves a sort key; the empty string means newest
func ParseSort(s string) (Sort, error) {
	switch Sort(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	case SortPriceAsc:
		return SortPriceAsc, nil
	case SortPriceDesc:
		return SortPriceDesc, nil
	case SortRelevance:
		return SortRelevance, nil
	}
	return "", shared.ErrInvalidSort
}

// Spec is a typed item query built from the caller's filter state
type Spec struct {
	Term     string   `json:"term"`
	Category string   `json:"category,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Sort     Sort     `json:"sort,omitempty"`
}

// Normalize trims the term and clears the "All Categories" sentinel
func (s Spec) Normalize() Spec {
	s.Term = strings.TrimSpace(s.Term)
	s.Category = strings.TrimSpace(s.Category)
	if strings.EqualFold(s.Category, item.AllCategories) {
		s.Category = ""
	}
	if s.Sort == "" {
		s.Sort = SortNewest
	}
	return s
}

// Validate checks a normalized spec before it is dispatched. Inverted bounds are
// not an error: they describe an empty result, see Empty.
func (s Spec) Validate() error {
	if s.Category != "" {
		if _, err := item.ParseCategory(s.Category); err != nil {
			return err
		}
	}
	if _, err := ParseSort(string(s.Sort)); err != nil {
		return err
	}
	if !validBound(s.MinPrice) || !validBound(s.MaxPrice) {
		return shared.ErrInvalidPriceRange
	}
	return nil
}

// validBound accepts an unset bound or a finite, non-negative one
func validBound(v *float64) bool {
	if v == nil {
		return true
	}
	return !math.IsNaN(*v) && !math.IsInf(*v, 0) && *v >= 0
}

// Empty returns true if the price bounds cannot be satisfied by any item
func (s Spec) Empty() bool {
	return s.MinPrice != nil && s.MaxPrice != nil && *s.MinPrice > *s.MaxPrice
}

// CategoryFilter returns the category to match, or false when every category matches
func (s Spec) CategoryFilter() (item.Category, bool) {
	if s.Category == "" {
		return "", false
	}
	c, err := item.ParseCategory(s.Category)
	if err != nil {
		return "", false
	}
	return c, true
}

// Matches evaluates the query against a single item in memory
func (s Spec) Matches(it *item.Item) bool {
	if s.Term != "" && !strings.Contains(strings.ToLower(it.Title), strings.ToLower(s.Term)) {
		return false
	}
	if c, ok := s.CategoryFilter(); ok && it.Category != c {
		return false
	}
	if s.MinPrice != nil && it.Price < *s.MinPrice {
		return false
	}
	if s.MaxPrice != nil && it.Price > *s.MaxPrice {
		return false
	}
	return true
}

// Apply filters and orders items in memory with the same semantics as the store query
func (s Spec) Apply(items []*item.Item) []*item.Item {
	out := make([]*item.Item, 0, len(items))
	if s.Empty() {
		return out
	}
	for _, it := range items {
		if s.Matches(it) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.less(out[i], out[j])
	})
	return out
}

func (s Spec) less(a, b *item.Item) bool {
	switch s.Sort {
	case SortOldest:
		return a.CreatedAt.Before(b.CreatedAt)
	case SortPriceAsc:
		if a.Price != b.Price {
			return a.Price < b.Price
		}
	case SortPriceDesc:
		if a.Price != b.Price {
			return a.Price > b.Price
		}
	}
	return a.CreatedAt.After(b.CreatedAt)
}
