package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/domain"
)

// InvestmentResponse represents an investment in API responses.
type InvestmentResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	PlanID         string          `json:"plan_id"`
	Status         string          `json:"status"`
	Principal      decimal.Decimal `json:"principal"`
	PaymentTxID    *string         `json:"payment_tx_id,omitempty"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	LastProfitDate *time.Time      `json:"last_profit_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// InvestmentFromDomain converts domain investment to response.
func InvestmentFromDomain(inv *domain.Investment) *InvestmentResponse {
	return &InvestmentResponse{
		ID:             inv.ID,
		UserID:         inv.UserID,
		PlanID:         inv.PlanID,
		Status:         string(inv.Status),
		Principal:      inv.Principal,
		PaymentTxID:    inv.PaymentTxID,
		StartDate:      inv.StartDate,
		EndDate:        inv.EndDate,
		LastProfitDate: inv.LastProfitDate,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

// InvestmentsFromDomain converts domain investments to responses.
func InvestmentsFromDomain(investments []*domain.Investment) []*InvestmentResponse {
	result := make([]*InvestmentResponse, len(investments))
	for i, inv := range investments {
		result[i] = InvestmentFromDomain(inv)
	}
	return result
}

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	InvestmentID *string         `json:"investment_id,omitempty"`
	Kind         string          `json:"kind"`
	Status       string          `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description,omitempty"`
	TxHash       *string         `json:"tx_hash,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		InvestmentID: t.InvestmentID,
		Kind:         string(t.Kind),
		Status:       string(t.Status),
		Amount:       t.Amount,
		Description:  t.Description,
		TxHash:       t.TxHash,
		CreatedAt:    t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// PlanResponse represents an investment plan in API responses.
type PlanResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	RiskLevel      string          `json:"risk_level,omitempty"`
	DurationMonths int             `json:"duration_months"`
	AnnualRate     decimal.Decimal `json:"annual_rate"`
	Active         bool            `json:"active"`
}

// PlanFromDomain converts domain plan to response.
func PlanFromDomain(p *domain.Plan) *PlanResponse {
	return &PlanResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		RiskLevel:      p.RiskLevel,
		DurationMonths: p.DurationMonths,
		AnnualRate:     p.AnnualRate,
		Active:         p.Active,
	}
}

// PlansFromDomain converts domain plans to responses.
func PlansFromDomain(plans []*domain.Plan) []*PlanResponse {
	result := make([]*PlanResponse, len(plans))
	for i, p := range plans {
		result[i] = PlanFromDomain(p)
	}
	return result
}

// BalanceResponse represents a user's withdrawable balance.
type BalanceResponse struct {
	UserID       string          `json:"user_id"`
	Withdrawable decimal.Decimal `json:"withdrawable"`
}

// RunResponse represents the outcome of an accrual or recovery run.
type RunResponse struct {
	AsOf    string `json:"as_of"`
	Payouts int    `json:"payouts"`
}

// ReferralPercentageResponse represents the referral percentage setting.
type ReferralPercentageResponse struct {
	Percent decimal.Decimal `json:"percent"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
