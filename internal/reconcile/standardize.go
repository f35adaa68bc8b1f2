// Package reconcile compares two extracted document record sets field by
// field, keyed by normalized product identity. Comparison is pure: it has no
// side effects and needs no synchronization.
package reconcile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// priceEpsilon is the tolerance for unit price comparison.
const priceEpsilon = 0.01

// Line is the reconciler's view of one (product, size) record. Callers map
// their extraction output into this shape; Standardize must run on both
// sides before comparison.
type Line struct {
	ProductCode string `json:"product_code"`
	Style       string `json:"style"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Currency    string `json:"currency"`
	Date        string `json:"date,omitempty"`
	CustomCode  string `json:"custom_code,omitempty"`
}

var (
	canonicalCode = regexp.MustCompile(`[A-Z]{1,4}\d{3,5}`)
	numberShape   = regexp.MustCompile(`-?\d+(?:[.,]\d+)*`)
	dateShape     = regexp.MustCompile(`(\d{1,4})[/.-](\d{1,2})[/.-](\d{1,4})`)
)

// Standardize coerces a line into canonical form: integer quantity (0 on
// parse failure), "CUR amount.2dp" price, MM/DD/YYYY date. It is idempotent.
func Standardize(l Line) Line {
	l.Quantity = strconv.Itoa(parseQuantity(l.Quantity))
	l.UnitPrice = canonicalPrice(l.UnitPrice, l.Currency)
	l.Date = canonicalDate(l.Date)
	return l
}

func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// Salvage a leading integer out of noisy input ("6 prs").
	if m := regexp.MustCompile(`^\d+`).FindString(s); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return 0
}

// canonicalPrice renders "CUR amount.2dp". Already-canonical input passes
// through unchanged; unparseable amounts canonicalize to 0.00.
func canonicalPrice(price, currency string) string {
	price = strings.TrimSpace(price)
	cur := strings.ToUpper(strings.TrimSpace(currency))

	// Pull an embedded currency off the price string itself.
	if parts := strings.Fields(price); len(parts) == 2 {
		if len(parts[0]) == 3 && !strings.ContainsAny(parts[0], "0123456789") {
			cur = strings.ToUpper(parts[0])
			price = parts[1]
		}
	}
	if cur == "" {
		cur = "EUR"
	}
	return fmt.Sprintf("%s %.2f", cur, parseAmount(price))
}

// parseAmount handles both "1,234.56" and "1.234,56" digit grouping.
func parseAmount(s string) float64 {
	m := numberShape.FindString(s)
	if m == "" {
		return 0
	}
	lastDot := strings.LastIndexByte(m, '.')
	lastComma := strings.LastIndexByte(m, ',')
	switch {
	case lastComma > lastDot: // comma is the decimal separator
		m = strings.ReplaceAll(m, ".", "")
		m = strings.Replace(m, ",", ".", 1)
	default:
		m = strings.ReplaceAll(m, ",", "")
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// canonicalDate coerces to MM/DD/YYYY. Inputs that do not look like dates
// pass through unchanged so the diff surfaces them verbatim.
func canonicalDate(s string) string {
	m := dateShape.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return s
	}
	a, b, c := m[1], m[2], m[3]
	// Four-digit leading component means YYYY-MM-DD ordering.
	if len(a) == 4 {
		return fmt.Sprintf("%s/%s/%s", pad2(b), pad2(c), a)
	}
	year := c
	switch len(year) {
	case 2:
		year = "20" + year
	case 4:
	default:
		return s
	}
	return fmt.Sprintf("%s/%s/%s", pad2(a), pad2(b), year)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
