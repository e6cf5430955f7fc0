// Package core provides money parsing and formatting utilities.
//
// Amounts are held as decimal.Decimal; these helpers convert between user
// input, storage text and the currency strings shown in the summary.
package core

import (
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol prefixes formatted amounts when none is configured.
const DefaultCurrencySymbol = "$"

// ParseAmount converts user input to a decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading currency symbol. The sign is preserved; positivity is a
// business rule enforced by Validate, not by parsing.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("$5")     -> 5, nil
//	ParseAmount("-3.50")  -> -3.5, nil
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, DefaultCurrencySymbol)
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "amount must be a number"}
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// FormatCurrency renders d rounded to cents with thousands grouping,
// e.g. "$1,234.50" or "-$5.00". The amount never leaves decimal form, so
// totals of any size keep their exact cents.
func FormatCurrency(symbol string, d decimal.Decimal) string {
	rounded := d.Round(2)
	fixed := rounded.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	grouped := intPart
	if n, ok := new(big.Int).SetString(intPart, 10); ok {
		grouped = humanize.BigComma(n)
	}

	s := symbol + grouped + "." + frac
	if rounded.IsNegative() {
		return "-" + s
	}
	return s
}
