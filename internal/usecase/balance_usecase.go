package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/domain"
)

// BalanceUseCase derives withdrawable balances and serves ledger history.
type BalanceUseCase struct {
	transactionRepo TransactionRepository
	userRepo        UserRepository
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(transactionRepo TransactionRepository, userRepo UserRepository) *BalanceUseCase {
	return &BalanceUseCase{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
	}
}

// WithdrawableBalance derives the amount the user may currently request as a
// withdrawal: completed profit and referral bonus entries, minus withdrawal
// entries that are pending or completed. Deposits never contribute; principal
// is locked into the investment. This is a pure read over the ledger.
func (uc *BalanceUseCase) WithdrawableBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return decimal.Zero, err
	}

	earnings, err := uc.transactionRepo.SumCompletedEarnings(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	withdrawals, err := uc.transactionRepo.SumHeldWithdrawals(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return earnings.Sub(withdrawals), nil
}

// ListTransactionsInput represents input for listing a user's ledger history.
type ListTransactionsInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListTransactions lists a user's ledger entries, newest first.
func (uc *BalanceUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.transactionRepo.ListByUser(ctx, input.UserID, limit, offset)
}
