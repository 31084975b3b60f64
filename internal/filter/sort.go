package filter

import (
	"slices"
	"strings"

	"github.com/kaspistat/catalog-service/internal/apperr"
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "ASC"
	Desc Order = "DESC"
)

// Sort is a validated sort spec.
type Sort struct {
	Field string
	Order Order
}

// ParseSort parses "field[,asc|desc]". Aliases are resolved before the
// allow-list check. An empty string yields nil (default order).
func ParseSort(raw string, allowed []string, aliases map[string]string) (*Sort, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	field := parts[0]
	if alias, ok := aliases[field]; ok {
		field = alias
	}
	if !slices.Contains(allowed, field) {
		return nil, apperr.Validation("Sorting field is not valid", ErrInvalidSortField)
	}

	order := Asc
	if len(parts) > 1 && strings.EqualFold(parts[1], "desc") {
		order = Desc
	}
	return &Sort{Field: field, Order: order}, nil
}
