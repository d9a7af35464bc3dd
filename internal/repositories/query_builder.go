package repository

import (
	"fmt"
	"strings"

	"github.com/modernshop/storefront-api/internal/models"
)

// predicateBuilder accumulates conjunctive WHERE clauses. Caller-supplied
// values are always bound positionally; the only strings that reach the
// query text are fixed expressions and allow-listed column names.
type predicateBuilder struct {
	clauses []string
	args    []any
}

// Static appends a clause with no bound value.
func (b *predicateBuilder) Static(expr string) {
	b.clauses = append(b.clauses, expr)
}

// Bind appends a clause and binds one value. Every "$?" token in expr is
// replaced with the value's positional placeholder, so a clause may
// reference the same parameter more than once.
func (b *predicateBuilder) Bind(expr string, value any) {
	b.args = append(b.args, value)
	placeholder := fmt.Sprintf("$%d", len(b.args))
	b.clauses = append(b.clauses, strings.ReplaceAll(expr, "$?", placeholder))
}

func (b *predicateBuilder) Where() string {
	if len(b.clauses) == 0 {
		return ""
	}

	return " WHERE " + strings.Join(b.clauses, " AND ")
}

func (b *predicateBuilder) Args() []any {
	return b.args
}

// NextPlaceholder is the positional index the next bound value would get,
// used to append LIMIT/OFFSET after the predicate.
func (b *predicateBuilder) NextPlaceholder() int {
	return len(b.args) + 1
}

// sortColumns is the allow-list for ORDER BY interpolation. Anything not
// listed falls back to creation time.
var sortColumns = map[string]string{
	"name":       "p.name",
	"price":      "p.price",
	"rating":     "p.rating",
	"created_at": "p.created_at",
}

func sortColumn(key string) string {
	if col, ok := sortColumns[key]; ok {
		return col
	}

	return "p.created_at"
}

func sortDirection(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}

	return "DESC"
}

// productPredicate translates a catalog filter into the shared predicate
// used by both the page query and its COUNT twin.
func productPredicate(filter *models.ProductFilter) *predicateBuilder {
	b := &predicateBuilder{}

	b.Static("p.is_active = true")

	if filter.CategoryID != nil {
		b.Bind("p.category_id = $?", *filter.CategoryID)
	}

	if filter.MinPrice != nil {
		b.Bind("p.price >= $?", *filter.MinPrice)
	}

	if filter.MaxPrice != nil {
		b.Bind("p.price <= $?", *filter.MaxPrice)
	}

	if filter.Search != "" {
		b.Bind("(p.name ILIKE $? OR p.description ILIKE $?)", "%"+filter.Search+"%")
	}

	return b
}
