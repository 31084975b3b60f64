package stat

import (
	"strconv"
	"time"

	"github.com/kaspistat/catalog-service/internal/product"
)

// ByDates projects rows, ordered newest first, onto the period days before
// today, oldest day first. A day takes the first matching row, so the last
// snapshot of the day wins. Days without a row and zero values are "".
func ByDates(rows []product.History, period int, types []Type, today time.Time) Stat {
	byDay := map[string]product.History{}
	for _, h := range rows {
		day := dateKey(h.CreatedAt)
		if _, ok := byDay[day]; !ok {
			byDay[day] = h
		}
	}

	var out Stat
	for i := period; i >= 1; i-- {
		day := dateKey(today.AddDate(0, 0, -i))
		h, ok := byDay[day]
		for _, t := range types {
			value := ""
			if ok {
				value = dateValue(h, t)
			}
			out.put(t, day, value)
		}
	}
	return out
}

// ByValues keys the given rows, newest first, by their creation date. Two
// rows of one day share a key and the older one is written last.
// The seller series counts the seller snapshot instead of the offer count.
func ByValues(rows []product.History, types []Type) Stat {
	var out Stat
	for _, h := range rows {
		day := dateKey(h.CreatedAt)
		for _, t := range types {
			value := dateValue(h, t)
			if t == TypeSellers {
				value = strconv.Itoa(len(h.ProductSellers))
			}
			out.put(t, day, value)
		}
	}
	return out
}

func dateKey(t time.Time) string { return t.UTC().Format(product.DateLayout) }

func dateValue(h product.History, t Type) string {
	switch t {
	case TypePrices:
		if !h.UnitPrice.Valid || h.UnitPrice.Decimal.IsZero() {
			return ""
		}
		return h.UnitPrice.Decimal.String()
	case TypeRating:
		if h.ProductRating == nil || *h.ProductRating == 0 {
			return ""
		}
		return strconv.FormatFloat(*h.ProductRating, 'f', -1, 64)
	case TypeReviews:
		return intValue(h.ReviewsQuantity)
	case TypeRatingCount:
		return intValue(h.RatingQuantity)
	case TypeSellers:
		return intValue(h.OffersQuantity)
	}
	return ""
}

func intValue(v *int64) string {
	if v == nil || *v == 0 {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
