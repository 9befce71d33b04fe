package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are stored and computed in integer paise (minor units) so balances
// never touch binary floating point. Decimal is used at the edges: parsing
// operator/user input and computing the withdrawal fee split.

// Parse converts a rupee string such as "2000" or "1999.50" into paise.
func Parse(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if d.Exponent() < -2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", value)
	}
	paise := d.Shift(2)
	if !paise.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", value)
	}
	return paise.IntPart(), nil
}

// Format renders paise as a two-decimal rupee string.
func Format(paise int64) string {
	return decimal.New(paise, -2).StringFixed(2)
}

// PayableAfterFee returns the amount payable to the user once the flat
// percentage platform fee is deducted. The wallet is always debited the full
// amount; this figure is informational for the operator.
func PayableAfterFee(amountPaise int64, feePercent int) int64 {
	if feePercent <= 0 {
		return amountPaise
	}
	amount := decimal.New(amountPaise, 0)
	fee := amount.Mul(decimal.New(int64(feePercent), -2)).Round(0)
	return amount.Sub(fee).IntPart()
}

// FeeFor returns the platform fee portion of a withdrawal amount.
func FeeFor(amountPaise int64, feePercent int) int64 {
	return amountPaise - PayableAfterFee(amountPaise, feePercent)
}
