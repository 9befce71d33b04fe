package enums

import "fmt"

// ReferenceType tags a ledger entry with the request or action that produced it.
type ReferenceType string

const (
	ReferenceTypeDeposit    ReferenceType = "deposit"
	ReferenceTypeWithdrawal ReferenceType = "withdrawal"
	ReferenceTypeTask       ReferenceType = "task"
	ReferenceTypeCommission ReferenceType = "commission"
	ReferenceTypeAdjustment ReferenceType = "adjustment"
)

var validReferenceTypes = []ReferenceType{
	ReferenceTypeDeposit,
	ReferenceTypeWithdrawal,
	ReferenceTypeTask,
	ReferenceTypeCommission,
	ReferenceTypeAdjustment,
}

// IsValid reports whether the value matches the canonical reference enum.
func (t ReferenceType) IsValid() bool {
	for _, candidate := range validReferenceTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseReferenceType converts raw input into ReferenceType.
func ParseReferenceType(value string) (ReferenceType, error) {
	for _, candidate := range validReferenceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reference type %q", value)
}
