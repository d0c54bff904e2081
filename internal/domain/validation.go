package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall = errors.New("amount below minimum allowed")
	ErrInvalidRate    = errors.New("invalid percentage rate")
)

// Validation constants
const (
	// MaxAmount matches the numeric(15,4) ledger columns.
	MaxAmount = "99999999999"
	MinAmount = "0.0001"
	// MaxReferralPercentage guards against fat-fingered settings writes.
	MaxReferralPercentage = "100"
)

// ValidateAmount validates a monetary amount for principals and withdrawals.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount, _ := decimal.NewFromString(MinAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidatePercentage validates a percentage rate such as the referral cut.
func ValidatePercentage(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return ErrInvalidRate
	}

	maxRate, _ := decimal.NewFromString(MaxReferralPercentage)
	if rate.GreaterThan(maxRate) {
		return fmt.Errorf("%w: maximum is %s", ErrInvalidRate, MaxReferralPercentage)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
