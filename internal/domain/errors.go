package domain

import "errors"

var (
	// Ledger errors
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrInvalidTransactionKind   = errors.New("unknown transaction kind")
	ErrInvalidTransactionStatus = errors.New("unknown transaction status")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrTransactionNotPending    = errors.New("transaction is not pending")

	// Withdrawal errors
	ErrInsufficientBalance = errors.New("insufficient withdrawable balance")

	// Investment errors
	ErrInvestmentNotFound      = errors.New("investment not found")
	ErrInvalidInvestmentStatus = errors.New("investment status does not allow this operation")
	ErrInvalidPlan             = errors.New("invalid investment plan")
	ErrPlanNotFound            = errors.New("investment plan not found")
	ErrPlanInactive            = errors.New("investment plan is not open for new investments")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Settings errors
	ErrSettingNotFound = errors.New("setting not found")
)
