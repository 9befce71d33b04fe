package enums

import "fmt"

// RequestKind distinguishes the three wallet request workflows.
type RequestKind string

const (
	RequestKindDeposit        RequestKind = "deposit"
	RequestKindWithdrawal     RequestKind = "withdrawal"
	RequestKindTaskCompletion RequestKind = "task_completion"
)

var validRequestKinds = []RequestKind{
	RequestKindDeposit,
	RequestKindWithdrawal,
	RequestKindTaskCompletion,
}

// IsValid reports whether the value matches the canonical request kind enum.
func (k RequestKind) IsValid() bool {
	for _, candidate := range validRequestKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseRequestKind converts raw input into RequestKind.
func ParseRequestKind(value string) (RequestKind, error) {
	for _, candidate := range validRequestKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request kind %q", value)
}

// RequestKinds returns every workflow kind, for pollers and admin queues.
func RequestKinds() []RequestKind {
	out := make([]RequestKind, len(validRequestKinds))
	copy(out, validRequestKinds)
	return out
}
