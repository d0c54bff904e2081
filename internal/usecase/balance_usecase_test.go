package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/domain"
	"github.com/pdrm55/vesthub/internal/usecase"
	"github.com/pdrm55/vesthub/internal/usecase/mocks"
)

func seedLedger(t *testing.T, repo *mocks.MockTransactionRepository, userID string, entries []struct {
	kind   domain.TransactionKind
	status domain.TransactionStatus
	amount string
}) {
	t.Helper()
	for i, e := range entries {
		err := repo.Create(context.Background(), nil, &domain.Transaction{
			ID:        userID + "-txn-" + string(rune('a'+i)),
			UserID:    userID,
			Kind:      e.kind,
			Status:    e.status,
			Amount:    decimal.RequireFromString(e.amount),
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("seed ledger: %v", err)
		}
	}
}

func TestBalanceUseCase_WithdrawableBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("earnings minus held withdrawals", func(t *testing.T) {
		txnRepo := mocks.NewMockTransactionRepository()
		userRepo := mocks.NewMockUserRepository()
		_ = userRepo.Create(ctx, &domain.User{ID: "user-1"})

		seedLedger(t, txnRepo, "user-1", []struct {
			kind   domain.TransactionKind
			status domain.TransactionStatus
			amount string
		}{
			{domain.TxKindProfit, domain.TxStatusCompleted, "100"},
			{domain.TxKindReferralBonus, domain.TxStatusCompleted, "10"},
			{domain.TxKindWithdrawal, domain.TxStatusPending, "30"},
			{domain.TxKindWithdrawal, domain.TxStatusCompleted, "20"},
			// Rejected withdrawals release their hold.
			{domain.TxKindWithdrawal, domain.TxStatusRejected, "15"},
			// Deposits are principal, never withdrawable.
			{domain.TxKindDeposit, domain.TxStatusCompleted, "500"},
		})

		uc := usecase.NewBalanceUseCase(txnRepo, userRepo)
		balance, err := uc.WithdrawableBalance(ctx, "user-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !balance.Equal(decimal.NewFromInt(60)) {
			t.Errorf("expected balance 60, got %s", balance)
		}
	})

	t.Run("empty ledger yields zero", func(t *testing.T) {
		txnRepo := mocks.NewMockTransactionRepository()
		userRepo := mocks.NewMockUserRepository()
		_ = userRepo.Create(ctx, &domain.User{ID: "user-1"})

		uc := usecase.NewBalanceUseCase(txnRepo, userRepo)
		balance, err := uc.WithdrawableBalance(ctx, "user-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !balance.IsZero() {
			t.Errorf("expected zero balance, got %s", balance)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		uc := usecase.NewBalanceUseCase(mocks.NewMockTransactionRepository(), mocks.NewMockUserRepository())
		_, err := uc.WithdrawableBalance(ctx, "ghost")
		if err != domain.ErrUserNotFound {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("pending profit does not count", func(t *testing.T) {
		txnRepo := mocks.NewMockTransactionRepository()
		userRepo := mocks.NewMockUserRepository()
		_ = userRepo.Create(ctx, &domain.User{ID: "user-1"})

		seedLedger(t, txnRepo, "user-1", []struct {
			kind   domain.TransactionKind
			status domain.TransactionStatus
			amount string
		}{
			{domain.TxKindProfit, domain.TxStatusPending, "100"},
			{domain.TxKindProfit, domain.TxStatusCompleted, "40"},
		})

		uc := usecase.NewBalanceUseCase(txnRepo, userRepo)
		balance, err := uc.WithdrawableBalance(ctx, "user-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !balance.Equal(decimal.NewFromInt(40)) {
			t.Errorf("expected balance 40, got %s", balance)
		}
	})
}
