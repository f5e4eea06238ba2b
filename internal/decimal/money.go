// Package decimal wraps shopspring/decimal with helpers for monetary
// amounts as they appear in DIAN electronic documents.
package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromString parses a monetary amount. Empty or whitespace-only input yields
// zero, matching how optional amount elements are read from UBL documents.
func FromString(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Zero, nil
	}
	return decimal.NewFromString(trimmed)
}

// Sum adds the given amounts.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
