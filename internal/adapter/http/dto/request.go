package dto

import (
	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/usecase"
)

// CreateInvestmentRequest represents a request to create an investment.
type CreateInvestmentRequest struct {
	UserID    string          `json:"user_id"`
	PlanID    string          `json:"plan_id"`
	Principal decimal.Decimal `json:"principal"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateInvestmentRequest) ToUseCaseInput() usecase.CreateInvestmentInput {
	return usecase.CreateInvestmentInput{
		UserID:    r.UserID,
		PlanID:    r.PlanID,
		Principal: r.Principal,
	}
}

// ActivateInvestmentRequest carries the payment reference approving a deposit.
type ActivateInvestmentRequest struct {
	PaymentTxID string `json:"payment_tx_id"`
}

// CreateWithdrawalRequest represents a withdrawal request.
type CreateWithdrawalRequest struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// ApproveWithdrawalRequest carries the on-chain hash of the payout.
type ApproveWithdrawalRequest struct {
	TxHash *string `json:"tx_hash,omitempty"`
}

// RunRequest represents a manual accrual or recovery trigger. AsOf defaults
// to today when omitted.
type RunRequest struct {
	AsOf string `json:"as_of,omitempty"`
}

// UpdateReferralPercentageRequest represents a settings update.
type UpdateReferralPercentageRequest struct {
	Percent decimal.Decimal `json:"percent"`
}
