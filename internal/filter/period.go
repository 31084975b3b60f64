package filter

import (
	"strconv"

	"github.com/kaspistat/catalog-service/internal/apperr"
)

// Period selects one of the trailing rating-change windows.
type Period int

const (
	PeriodNone Period = 0
	Period30   Period = 30
	Period60   Period = 60
	Period90   Period = 90
)

// Periods lists every window in ascending order.
var Periods = []Period{Period30, Period60, Period90}

// ParsePeriod parses a ratingQuantityChange query value. Empty means none.
func ParsePeriod(raw string) (Period, error) {
	if raw == "" || raw == "0" {
		return PeriodNone, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return PeriodNone, apperr.Validation("Rating quantity change is not valid")
	}
	switch p := Period(n); p {
	case Period30, Period60, Period90:
		return p, nil
	}
	return PeriodNone, apperr.Validation("Rating quantity change is not valid")
}

// Days returns the window length in days.
func (p Period) Days() int { return int(p) }

// Valid reports whether p is one of the defined windows.
func (p Period) Valid() bool {
	return p == Period30 || p == Period60 || p == Period90
}

func (p Period) String() string {
	if !p.Valid() {
		return ""
	}
	return strconv.Itoa(int(p))
}
