package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupiah renders an amount the way Indonesian invoices do: whole
// rupiah with dots as thousands separators, e.g. 1500000 -> "Rp 1.500.000".
// Fractions are truncated; rupiah amounts in this system are whole numbers.
func FormatRupiah(amount decimal.Decimal) string {
	s := amount.Truncate(0).String()

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	if neg {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}
