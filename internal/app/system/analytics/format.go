package analytics

import (
	"math"
	"strconv"
	"strings"
)

// Presentation helpers. Aggregation never rounds; only these do.

// Percent formats an already-scaled percentage with one decimal: 70 → "70.0%".
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// Decimal formats v with a fixed number of decimals.
func Decimal(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}

// Count formats n with a space between thousands groups: 12345 → "12 345".
func Count(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 && !(neg && b.Len() == 1) {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Unavailable stands in for a figure that cannot be shown.
const Unavailable = "n/d"

// Money formats an amount in euros with two decimals: 1234.5 → "1 234.50 €".
// Non-finite values render as Unavailable.
func Money(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return Unavailable
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	whole, err := strconv.Atoi(s[:dot])
	if err != nil {
		return s + " €"
	}
	intPart := Count(whole)
	if whole == 0 && strings.HasPrefix(s, "-") {
		intPart = "-0"
	}
	return intPart + s[dot:] + " €"
}
