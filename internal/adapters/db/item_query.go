package db

import (
	"fmt"
	"strings"

	"campus-marketplace/internal/domain/recommend"
	"campus-marketplace/internal/domain/search"

	"github.com/lib/pq"
)

const itemColumns = `id, title, price, category, description, location, image_url, contact_phone, user_id, created_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

// queryBuilder collects WHERE conditions with numbered placeholders
type queryBuilder struct {
	conditions []string
	args       []interface{}
}

func (b *queryBuilder) arg(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *queryBuilder) where(condition string) {
	b.conditions = append(b.conditions, condition)
}

func (b *queryBuilder) whereClause(joiner string) string {
	if len(b.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conditions, joiner)
}

func orderClause(sort search.Sort) string {
	switch sort {
	case search.SortOldest:
		return " ORDER BY created_at ASC"
	case search.SortPriceAsc:
		return " ORDER BY price ASC, created_at DESC"
	case search.SortPriceDesc:
		return " ORDER BY price DESC, created_at DESC"
	}
	return " ORDER BY created_at DESC"
}

// buildSearchQuery composes one SELECT for a normalized, validated spec
func buildSearchQuery(spec search.Spec) (string, []interface{}) {
	b := &queryBuilder{}

	if spec.Term != "" {
		b.where("title ILIKE " + b.arg(containsPattern(spec.Term)))
	}
	if category, ok := spec.CategoryFilter(); ok {
		b.where("category = " + b.arg(string(category)))
	}
	if spec.MinPrice != nil {
		b.where("price >= " + b.arg(*spec.MinPrice))
	}
	if spec.MaxPrice != nil {
		b.where("price <= " + b.arg(*spec.MaxPrice))
	}

	query := "SELECT " + itemColumns + " FROM items" + b.whereClause(" AND ") + orderClause(spec.Sort)
	return query, b.args
}

// buildRecommendQuery composes the keyword/affiliation OR-filter of a plan
func buildRecommendQuery(plan recommend.Plan) (string, []interface{}) {
	b := &queryBuilder{}

	if len(plan.Keywords) > 0 {
		patterns := make([]string, 0, len(plan.Keywords))
		for _, kw := range plan.Keywords {
			patterns = append(patterns, containsPattern(kw))
		}
		p := b.arg(pq.Array(patterns))
		b.where("title ILIKE ANY(" + p + ")")
		b.where("category ILIKE ANY(" + p + ")")
	}
	if plan.Affiliation != "" {
		b.where("location ILIKE " + b.arg(containsPattern(plan.Affiliation)))
	}

	limit := plan.Limit
	if limit <= 0 {
		limit = recommend.Limit
	}

	query := "SELECT " + itemColumns + " FROM items" + b.whereClause(" OR ") +
		" ORDER BY created_at DESC LIMIT " + b.arg(limit)
	return query, b.args
}
