package category

import "golang.org/x/text/cases"

var folder = cases.Fold()

// SameText compares two strings case-insensitively with full Unicode folding.
// Category URLs and names are matched this way; query strings are not normalized.
func SameText(a, b string) bool {
	if a == b {
		return true
	}
	return folder.String(a) == folder.String(b)
}
