package helper

import (
	"math"
	"strconv"
	"strings"
)

// MaskString hides all but the last four characters of an identifier.
// Used for account numbers in every user-facing report line.
func MaskString(s string) string {
	if len(s) <= 4 {
		return s
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

// StripCurrency removes the dollar sign and sign markers the positions
// export puts on price/value fields. "$240.00" -> "240.00", "-" -> "".
func StripCurrency(s string) string {
	s = strings.ReplaceAll(s, "$", "")
	return strings.ReplaceAll(s, "-", "")
}

// Title lower-cases the action and upper-cases the first letter, matching
// how the order ticket labels its options ("buy" -> "Buy").
func Title(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// RoundTo rounds to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	pow := math.Pow10(places)
	return math.Round(v*pow) / pow
}

// FormatQty renders a share quantity the way the ticket displays it:
// no trailing zeros, no exponent.
func FormatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// FormatPrice renders an already-rounded limit price without trailing zeros.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
