package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger entry. The amount is always positive;
// the kind decides whether it counts for or against the withdrawable balance.
type TransactionKind string

const (
	TxKindDeposit       TransactionKind = "deposit"
	TxKindWithdrawal    TransactionKind = "withdrawal"
	TxKindProfit        TransactionKind = "profit"
	TxKindReferralBonus TransactionKind = "referral_bonus"
)

// TransactionStatus is the settlement state of a ledger entry.
type TransactionStatus string

const (
	TxStatusPending   TransactionStatus = "pending"
	TxStatusCompleted TransactionStatus = "completed"
	TxStatusRejected  TransactionStatus = "rejected"
)

// Transaction is a single immutable ledger entry. Completed rows are never
// updated or deleted; corrections are made by appending offsetting entries.
type Transaction struct {
	CreatedAt    time.Time
	InvestmentID *string
	TxHash       *string
	ID           string
	UserID       string
	Kind         TransactionKind
	Status       TransactionStatus
	Description  string
	Amount       decimal.Decimal
}

// IsEarning reports whether the entry adds to withdrawable balance once completed.
func (t *Transaction) IsEarning() bool {
	return t.Kind == TxKindProfit || t.Kind == TxKindReferralBonus
}

// Validate checks transaction invariants.
func (t *Transaction) Validate() error {
	if t.UserID == "" {
		return ErrUserNotFound
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	switch t.Kind {
	case TxKindDeposit, TxKindWithdrawal, TxKindProfit, TxKindReferralBonus:
	default:
		return ErrInvalidTransactionKind
	}
	switch t.Status {
	case TxStatusPending, TxStatusCompleted, TxStatusRejected:
	default:
		return ErrInvalidTransactionStatus
	}
	return nil
}
