// Package core holds the payment domain: records, submissions, audit
// queries, amount parsing and period resolution.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-entered monetary amount into an exact decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// tolerates a leading dollar sign, since users paste amounts straight from
// invoices. Amounts are always positive; sums never touch binary floats.
//
// Examples:
//
//	ParseAmount("150.50") -> 150.50, nil
//	ParseAmount("1,99")   -> 1.99, nil
//	ParseAmount("$20")    -> 20, nil
//	ParseAmount("-5")     -> ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders a decimal amount with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
