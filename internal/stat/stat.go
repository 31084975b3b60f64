// Package stat projects a product's history rows into per-day metric
// series for the product details endpoint.
package stat

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/kaspistat/catalog-service/internal/apperr"
)

// Type is a requested metric series.
type Type string

const (
	TypePrices  Type = "prices"
	TypeRating  Type = "rating"
	TypeReviews Type = "reviews"
	// TypeRatingCount is spelled with a Cyrillic "с"; clients send it that way.
	TypeRatingCount Type = "ratingсount"
	TypeSellers     Type = "sellers"
)

// Types lists every metric in response order.
var Types = []Type{TypePrices, TypeRating, TypeReviews, TypeRatingCount, TypeSellers}

// ParseTypes parses a comma-separated type list. Tokens are trimmed and
// lowercased; the all-latin "ratingcount" is accepted as well.
func ParseTypes(raw string) ([]Type, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperr.Validation("Data types is not defined")
	}
	tokens := lo.FilterMap(strings.Split(raw, ","), func(t string, _ int) (string, bool) {
		t = strings.ToLower(strings.TrimSpace(t))
		return t, t != ""
	})
	if len(tokens) == 0 {
		return nil, apperr.Validation("Data types is not right format")
	}

	out := make([]Type, 0, len(tokens))
	for _, t := range tokens {
		if t == "ratingcount" {
			t = string(TypeRatingCount)
		}
		if !lo.Contains(Types, Type(t)) {
			return nil, apperr.Validation("Data types is not right format")
		}
		out = append(out, Type(t))
	}
	return lo.Uniq(out), nil
}

// Mode selects how history rows are keyed.
type Mode string

const (
	// ModeDates emits one entry per calendar day of the period.
	ModeDates Mode = "dates"
	// ModeValues emits the latest rows regardless of gaps.
	ModeValues Mode = "values"
)

// ParseMode parses a mode. Empty means ModeDates.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(raw)) {
	case "", ModeDates:
		return ModeDates, nil
	case ModeValues:
		return ModeValues, nil
	}
	return "", apperr.Validation("Mode value is wrong")
}

// ParsePeriod parses the day count of a stat request.
func ParsePeriod(raw string) (int, error) {
	if raw == "" {
		return 0, apperr.Validation("Period is not defined")
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.Validation("Period is not right format")
	}
	return n, nil
}

// Series maps a YYYY-MM-DD date to a stringified value. Absent values are "".
type Series map[string]string

// Stat holds the requested series. Series that were not requested are nil.
type Stat struct {
	Prices      Series `json:"prices,omitempty"`
	Ratings     Series `json:"ratings,omitempty"`
	Reviews     Series `json:"reviews,omitempty"`
	RatingCount Series `json:"ratingсount,omitempty"`
	Sellers     Series `json:"sellers,omitempty"`
}

func (s *Stat) series(t Type) *Series {
	switch t {
	case TypePrices:
		return &s.Prices
	case TypeRating:
		return &s.Ratings
	case TypeReviews:
		return &s.Reviews
	case TypeRatingCount:
		return &s.RatingCount
	case TypeSellers:
		return &s.Sellers
	}
	return nil
}

func (s *Stat) put(t Type, date, value string) {
	ptr := s.series(t)
	if ptr == nil {
		return
	}
	if *ptr == nil {
		*ptr = Series{}
	}
	(*ptr)[date] = value
}
