package filter

import (
	"strconv"

	"github.com/kaspistat/catalog-service/internal/apperr"
)

// DefaultPageSize is used when the caller omits a size.
const DefaultPageSize = 10

// Page is a validated page request.
type Page struct {
	Number int
	Size   int
	Sort   *Sort
}

// ValidatePage checks number >= 1 and 1 <= size <= maxSize.
func ValidatePage(number, size, maxSize int) (Page, error) {
	if number < 1 {
		return Page{}, apperr.Validation("Page number is not valid")
	}
	if size < 1 || size > maxSize {
		return Page{}, apperr.Validation("Page size is not valid (max: " + strconv.Itoa(maxSize) + ")")
	}
	return Page{Number: number, Size: size}, nil
}

// Limit returns the page size, falling back to DefaultPageSize.
func (p Page) Limit() int {
	if p.Size <= 0 {
		return DefaultPageSize
	}
	return p.Size
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit()
}

// CheckPageBounds fails when the page is past the last one. Page 1 is always
// accepted so that empty results paginate cleanly.
func CheckPageBounds(total int, p Page) error {
	limit := p.Limit()
	maxPage := (total + limit - 1) / limit
	if maxPage < p.Number && p.Number != 1 {
		return apperr.Validation("Page number is not valid")
	}
	return nil
}

// Listing is the generic pagination envelope returned to clients.
type Listing[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	Total    int `json:"total"`
	PageSize int `json:"pageSize"`
}

// NewListing wraps items in a Listing. A nil slice is emitted as [].
func NewListing[T any](items []T, p Page, total int) Listing[T] {
	if items == nil {
		items = []T{}
	}
	return Listing[T]{Items: items, Page: p.Number, Total: total, PageSize: p.Limit()}
}
