// AngelaMos | 2026
// money.go

package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money amounts are minor-unit currency (naira with kobo) and always carry
// two fraction digits. Columns are NUMERIC(12,2); everything in between is
// decimal.Decimal.

const moneyPlaces = 2

func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, ErrInvalidInput)
	}

	if amount.Exponent() < -moneyPlaces {
		return decimal.Zero, fmt.Errorf(
			"amount %q has sub-kobo precision: %w", s, ErrInvalidInput)
	}

	return amount.Round(moneyPlaces), nil
}

func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(moneyPlaces)
}

// FormatNaira renders an amount the way the mobile clients show it:
// "₦10,000.00".
func FormatNaira(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(moneyPlaces)

	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString("₦")

	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	b.WriteByte('.')
	b.WriteString(frac)

	return b.String()
}
