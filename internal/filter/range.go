// Package filter holds the listing primitives shared by the catalog
// endpoints: numeric ranges, sort specs, rating-change periods and the
// pagination envelope.
package filter

import (
	"errors"
	"math"

	"github.com/kaspistat/catalog-service/internal/apperr"
)

var (
	// ErrInvalidRange is wrapped by every range validation failure.
	ErrInvalidRange = errors.New("invalid range")
	// ErrInvalidSortField is wrapped when a sort field is not allow-listed.
	ErrInvalidSortField = errors.New("invalid sort field")
)

// Number is the set of value types a Range can bound.
type Number interface {
	~int64 | ~float64
}

// Range is an inclusive numeric interval; a nil end is unbounded.
type Range[T Number] struct {
	From *T `json:"from,omitempty"`
	To   *T `json:"to,omitempty"`
}

// Empty reports whether neither end is set.
func (r *Range[T]) Empty() bool {
	return r == nil || (r.From == nil && r.To == nil)
}

// Contains reports whether v lies inside the range.
func (r *Range[T]) Contains(v T) bool {
	if r.Empty() {
		return true
	}
	if r.From != nil && v < *r.From {
		return false
	}
	if r.To != nil && v > *r.To {
		return false
	}
	return true
}

// ValidateNumberRange validates a from/to pair read from a query string.
// Both ends absent yields a nil range, meaning "no filter".
//
// The integer flag only constrains from; to must always be a whole number.
func ValidateNumberRange(from, to *float64, field string, integer bool) (*Range[float64], error) {
	if from != nil && (*from < 0 || (integer && !isWhole(*from))) {
		return nil, apperr.Validation("From "+field+" value is not valid", ErrInvalidRange)
	}
	if to != nil && (*to < 0 || !isWhole(*to)) {
		return nil, apperr.Validation("To "+field+" value is not valid", ErrInvalidRange)
	}
	if from != nil && to != nil && *to < *from {
		return nil, apperr.Validation("To "+field+" value is not valid", ErrInvalidRange)
	}
	if from == nil && to == nil {
		return nil, nil
	}
	return &Range[float64]{From: from, To: to}, nil
}

func isWhole(v float64) bool {
	return !math.IsInf(v, 0) && v == math.Trunc(v)
}
