package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// SettingsCacheTTL is how long the referral percentage is cached. A stale
	// read only delays a settings change by this long; changes are
	// prospective anyway.
	SettingsCacheTTL = time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
