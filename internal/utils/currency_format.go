package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatWithPrecision formats an amount with the given precision
// This is a convenience function when you only have the precision value
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}

// FormatRupiah renders an amount the way invoices show it.
// Example: 15300000 returns "Rp 15.300.000"
// Example: -2500.5 returns "-Rp 2.501"
func FormatRupiah(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	digits := FormatWithPrecision(amount.Abs(), 0)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("Rp ")
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}
