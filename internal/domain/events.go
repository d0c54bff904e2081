package domain

import "time"

// Event types
const (
	EventTypeProfitPaid          = "profit.paid"
	EventTypeReferralBonusPaid   = "referral_bonus.paid"
	EventTypeWithdrawalRequested = "withdrawal.requested"
	EventTypeWithdrawalCompleted = "withdrawal.completed"
	EventTypeWithdrawalRejected  = "withdrawal.rejected"
	EventTypeInvestmentActivated = "investment.activated"
)

// Aggregate types
const (
	AggregateTypeInvestment  = "investment"
	AggregateTypeTransaction = "transaction"
)

// OutboxEvent is a user-facing notification waiting to be delivered. It is
// written in the same database transaction as the ledger change it describes
// and published fire-and-forget afterwards; delivery failure never affects the
// ledger.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// ProfitPaidEvent payload
type ProfitPaidEvent struct {
	InvestmentID string `json:"investment_id"`
	UserID       string `json:"user_id"`
	Amount       string `json:"amount"`
	Day          string `json:"day"`
}

// WithdrawalRequestedEvent payload
type WithdrawalRequestedEvent struct {
	TransactionID string `json:"transaction_id"`
	UserID        string `json:"user_id"`
	Amount        string `json:"amount"`
}
