package product

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the calendar date format used in responses.
const DateLayout = "2006-01-02"

var (
	dateSeparators = strings.NewReplacer("/", "-", ".", "-", "_", "-")
	yearMonthDay   = regexp.MustCompile(`((?:20[012]\d|19\d\d))-(0\d|1[012])-(0[1-9]|[12]\d|3[01])`)
	dayMonthYear   = regexp.MustCompile(`(0[1-9]|[12]\d|3[01])-(0\d|1[012])-((?:20[012]\d|19\d\d))`)
)

// ParseMarketDate reads the marketplace's free-form creation date. It
// accepts YYYY-MM-DD and DD-MM-YYYY with "-", "/", "." or "_" separators and
// returns nil when neither matches or the date does not exist.
func ParseMarketDate(s string) *time.Time {
	s = strings.TrimSpace(dateSeparators.Replace(s))

	var y, m, d string
	if g := yearMonthDay.FindStringSubmatch(s); g != nil {
		y, m, d = g[1], g[2], g[3]
	} else if g := dayMonthYear.FindStringSubmatch(s); g != nil {
		d, m, y = g[1], g[2], g[3]
	} else {
		return nil
	}

	t, err := time.Parse(DateLayout, y+"-"+m+"-"+d)
	if err != nil {
		return nil
	}
	return &t
}

// startOfDay returns midnight of t's calendar day in t's location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from start to end, ignoring the time of day.
func DaysBetween(start, end time.Time) int {
	a := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// FormatDate renders t as YYYY-MM-DD, or "" for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
