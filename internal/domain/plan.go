package domain

import (
	"github.com/shopspring/decimal"
)

// Plan is an investment plan. The annual rate is read at accrual time but is
// treated as fixed for the life of each investment taken out under it.
type Plan struct {
	ID             string
	Name           string
	Description    string
	RiskLevel      string
	DurationMonths int
	Active         bool
	AnnualRate     decimal.Decimal
}

// Validate checks plan invariants.
func (p *Plan) Validate() error {
	if p.Name == "" {
		return ErrInvalidPlan
	}
	if p.AnnualRate.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPlan
	}
	if p.DurationMonths <= 0 {
		return ErrInvalidPlan
	}
	return nil
}
