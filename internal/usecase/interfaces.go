package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/domain"
)

// InvestmentRepository defines data access for investments.
type InvestmentRepository interface {
	Create(ctx context.Context, investment *domain.Investment) error
	GetByID(ctx context.Context, id string) (*domain.Investment, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Investment, error)
	ListActiveIDs(ctx context.Context) ([]string, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Investment, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.InvestmentStatus, updatedAt time.Time) error
	SetPaymentTxID(ctx context.Context, tx Transaction, id, paymentTxID string, updatedAt time.Time) error
	SetStartDate(ctx context.Context, tx Transaction, id string, start time.Time, updatedAt time.Time) error
	SetLastProfitDate(ctx context.Context, tx Transaction, id string, day time.Time, updatedAt time.Time) error
}

// TransactionRepository defines data access for ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	// ProfitExistsOn reports whether a profit entry referencing the investment
	// already exists for the given UTC calendar day.
	ProfitExistsOn(ctx context.Context, tx Transaction, investmentID string, day time.Time) (bool, error)
	// SumCompletedEarnings sums completed profit and referral_bonus entries.
	SumCompletedEarnings(ctx context.Context, userID string) (decimal.Decimal, error)
	SumCompletedEarningsTx(ctx context.Context, tx Transaction, userID string) (decimal.Decimal, error)
	// SumHeldWithdrawals sums withdrawal entries that are pending or completed.
	SumHeldWithdrawals(ctx context.Context, userID string) (decimal.Decimal, error)
	SumHeldWithdrawalsTx(ctx context.Context, tx Transaction, userID string) (decimal.Decimal, error)
	SetStatus(ctx context.Context, tx Transaction, id string, status domain.TransactionStatus, txHash *string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error)
	ListByInvestment(ctx context.Context, investmentID string, limit, offset int) ([]*domain.Transaction, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.User, error)
}

// PlanRepository defines data access for investment plans.
type PlanRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context) ([]*domain.Plan, error)
}

// SettingRepository defines data access for system settings.
type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// OutboxRepository defines data access for pending notifications.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs a unit of work on transient database failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore deduplicates mutating HTTP requests by key.
type IdempotencyStore interface {
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Clock supplies the current time so accrual runs are testable with an
// injected clock.
type Clock interface {
	Now() time.Time
}
