package enums

// WalletEventType names the best-effort notification events published on
// wallet state changes.
type WalletEventType string

const (
	EventRequestSubmitted WalletEventType = "wallet.request.submitted"
	EventRequestApproved  WalletEventType = "wallet.request.approved"
	EventRequestRejected  WalletEventType = "wallet.request.rejected"
	EventBalanceAdjusted  WalletEventType = "wallet.balance.adjusted"
	EventCommissionPaid   WalletEventType = "wallet.commission.paid"
)
