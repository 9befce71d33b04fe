package enums

import "fmt"

// PayoutMethod identifies the destination rail for a withdrawal.
type PayoutMethod string

const (
	PayoutMethodBank   PayoutMethod = "bank"
	PayoutMethodUPI    PayoutMethod = "upi"
	PayoutMethodCrypto PayoutMethod = "crypto"
)

var validPayoutMethods = []PayoutMethod{
	PayoutMethodBank,
	PayoutMethodUPI,
	PayoutMethodCrypto,
}

// IsValid reports whether the value matches the canonical payout method enum.
func (m PayoutMethod) IsValid() bool {
	for _, candidate := range validPayoutMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePayoutMethod converts raw input into PayoutMethod.
func ParsePayoutMethod(value string) (PayoutMethod, error) {
	for _, candidate := range validPayoutMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payout method %q", value)
}
