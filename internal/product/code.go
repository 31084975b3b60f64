package product

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/kaspistat/catalog-service/internal/apperr"
)

// MarketHost is the only marketplace host product urls may point to.
const MarketHost = "kaspi.kz"

var (
	numericCode = regexp.MustCompile(`^\d+$`)
	slugChars   = regexp.MustCompile(`^[a-zA-Z0-9\-]+$`)
	slugCode    = regexp.MustCompile(`^[a-zA-Z0-9\-]+-(\d+)?$`)
)

// IsNumericCode reports whether q is a bare product code.
func IsNumericCode(q string) bool { return numericCode.MatchString(q) }

// ResolveCode turns a product details query into a product code. q is either
// a numeric code or a marketplace shop url whose last path segment ends with
// "-<code>".
func ResolveCode(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", apperr.Validation("Product url is not defined. Please enter kaspi shop url or product code.")
	}
	if IsNumericCode(q) {
		return q, nil
	}

	u, err := url.Parse(q)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", apperr.Validation("Product url is not valid. Please enter kaspi shop url or product code.")
	}
	if u.Host != MarketHost {
		return "", apperr.Validation("Product url is not valid. It is possisble to check products of kaspi.kz only")
	}
	if !strings.Contains(u.Path, "shop/") {
		return "", apperr.Validation("Product url is not valid. It is possisble to check products of kaspi.kz shop only")
	}

	code := codeFromPath(u.Path)
	if code == "" {
		return "", apperr.Validation("Product url is not valid")
	}
	return code, nil
}

// CodeFromURL extracts the product code from a marketplace url, or "".
func CodeFromURL(q string) string {
	u, err := url.Parse(q)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Host != MarketHost && !strings.Contains(u.Path, "shop/") {
		return ""
	}
	return codeFromPath(u.Path)
}

func codeFromPath(path string) string {
	parts := strings.Split(path, "/")
	var last string
	for i := len(parts) - 1; i >= 0 && last == ""; i-- {
		last = parts[i]
	}
	if last == "" || !slugChars.MatchString(last) {
		return ""
	}
	m := slugCode.FindStringSubmatch(last)
	if m == nil {
		return ""
	}
	return m[1]
}
