package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentStatus is the lifecycle state of an investment.
type InvestmentStatus string

const (
	InvestmentPendingPayment InvestmentStatus = "pending_payment"
	InvestmentActive         InvestmentStatus = "active"
	InvestmentRejected       InvestmentStatus = "rejected"
	InvestmentCompleted      InvestmentStatus = "completed"
)

// Investment is one user's commitment of principal to a plan. Profit accrues
// daily while the status is active; LastProfitDate marks the last calendar day
// a profit entry was written and only ever moves forward.
type Investment struct {
	StartDate      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	EndDate        *time.Time
	LastProfitDate *time.Time
	PaymentTxID    *string
	ID             string
	UserID         string
	PlanID         string
	Status         InvestmentStatus
	Principal      decimal.Decimal
}

// CanTransitionTo reports whether the status change is a legal lifecycle move.
func (i *Investment) CanTransitionTo(next InvestmentStatus) bool {
	switch i.Status {
	case InvestmentPendingPayment:
		return next == InvestmentActive || next == InvestmentRejected
	case InvestmentActive:
		return next == InvestmentCompleted
	default:
		return false
	}
}

// PaidOn reports whether profit for the given calendar day is already recorded
// according to the last-profit-date marker alone. The reconciler additionally
// checks the ledger itself.
func (i *Investment) PaidOn(day time.Time) bool {
	return i.LastProfitDate != nil && DateOf(*i.LastProfitDate).Equal(DateOf(day))
}

// AccrualStart returns the first calendar day that may still need a profit
// entry: the day after the last payout, or the start date if nothing was paid.
func (i *Investment) AccrualStart() time.Time {
	if i.LastProfitDate != nil {
		return DateOf(*i.LastProfitDate).AddDate(0, 0, 1)
	}
	return DateOf(i.StartDate)
}

// DailyProfit computes one day's profit for the given annual percentage rate:
// principal * (rate / 100) / 365, straight-line with no compounding and no
// leap-year adjustment, quantized with QuantizeAmount.
func (i *Investment) DailyProfit(annualRate decimal.Decimal) decimal.Decimal {
	profit := i.Principal.Mul(annualRate.Div(decimal.NewFromInt(100))).Div(decimal.NewFromInt(365))
	return QuantizeAmount(profit)
}

// ReferralBonus computes the referrer's cut of one day's profit.
func ReferralBonus(dailyProfit, percent decimal.Decimal) decimal.Decimal {
	return QuantizeAmount(dailyProfit.Mul(percent.Div(decimal.NewFromInt(100))))
}

// QuantizeAmount rounds a monetary amount to 4 decimal places using banker's
// rounding (round half to even). Every payout amount in the ledger goes
// through this single function so long-run totals stay consistent.
func QuantizeAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(4)
}

// DateLayout formats a calendar day for logs, queries and the API.
const DateLayout = "2006-01-02"

// DateOf truncates a timestamp to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MiddayOf returns 12:00 UTC on the calendar day of t. Backfilled ledger
// entries use it so historical rows sort within the day they belong to.
func MiddayOf(t time.Time) time.Time {
	return DateOf(t).Add(12 * time.Hour)
}
