package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/domain"
	"github.com/pdrm55/vesthub/internal/infrastructure/metrics"
)

// WithdrawalUseCase admits or rejects withdrawal requests and resolves pending
// ones. Admission re-derives the withdrawable balance inside an exclusive lock
// on the user row, so two concurrent requests can never both spend the same
// funds. Nothing slow happens while the lock is held: notifications go through
// the outbox and are delivered after commit.
type WithdrawalUseCase struct {
	txManager       TransactionManager
	transactionRepo TransactionRepository
	userRepo        UserRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	clock           Clock
	metrics         *metrics.Metrics
	logger          zerolog.Logger
}

// NewWithdrawalUseCase creates a new WithdrawalUseCase. metrics may be nil.
func NewWithdrawalUseCase(
	txManager TransactionManager,
	transactionRepo TransactionRepository,
	userRepo UserRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		clock:           clock,
		metrics:         m,
		logger:          logger,
	}
}

// RequestWithdrawal admits a withdrawal for the amount or rejects it with
// domain.ErrInsufficientBalance. The admitted entry is written with status
// pending, which immediately reduces the balance available to any later
// request; an external approval step resolves it.
func (uc *WithdrawalUseCase) RequestWithdrawal(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	user, err := uc.userRepo.GetByIDForUpdate(txCtx, tx, userID)
	if err != nil {
		return nil, err
	}

	// Balance must be derived inside the lock; a value computed earlier in
	// the request could be stale by now.
	earnings, err := uc.transactionRepo.SumCompletedEarningsTx(txCtx, tx, user.ID)
	if err != nil {
		return nil, err
	}
	withdrawals, err := uc.transactionRepo.SumHeldWithdrawalsTx(txCtx, tx, user.ID)
	if err != nil {
		return nil, err
	}
	balance := earnings.Sub(withdrawals)

	if amount.GreaterThan(balance) {
		if uc.metrics != nil {
			uc.metrics.WithdrawalsDecided.WithLabelValues("rejected").Inc()
		}
		return nil, domain.ErrInsufficientBalance
	}

	now := uc.clock.Now().UTC()
	txn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		UserID:      user.ID,
		Kind:        domain.TxKindWithdrawal,
		Amount:      amount,
		Status:      domain.TxStatusPending,
		Description: "User withdrawal request",
		CreatedAt:   now,
	}
	if err := uc.transactionRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(txCtx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeWithdrawalRequested,
		Payload: map[string]any{
			"transaction_id": txn.ID,
			"user_id":        user.ID,
			"amount":         amount.String(),
		},
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WithdrawalsDecided.WithLabelValues("accepted").Inc()
	}
	uc.logger.Info().
		Str("transaction_id", txn.ID).
		Str("user_id", user.ID).
		Str("amount", amount.String()).
		Msg("withdrawal request admitted")

	return txn, nil
}

// ApproveWithdrawal marks a pending withdrawal completed, recording the
// on-chain hash of the payout when one is supplied.
func (uc *WithdrawalUseCase) ApproveWithdrawal(ctx context.Context, id string, txHash *string) error {
	return uc.resolve(ctx, id, domain.TxStatusCompleted, txHash, domain.EventTypeWithdrawalCompleted)
}

// RejectWithdrawal marks a pending withdrawal rejected, releasing the funds it
// reserved back into the withdrawable balance.
func (uc *WithdrawalUseCase) RejectWithdrawal(ctx context.Context, id string) error {
	return uc.resolve(ctx, id, domain.TxStatusRejected, nil, domain.EventTypeWithdrawalRejected)
}

func (uc *WithdrawalUseCase) resolve(ctx context.Context, id string, status domain.TransactionStatus, txHash *string, eventType string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	txn, err := uc.transactionRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}
	if txn.Kind != domain.TxKindWithdrawal {
		return fmt.Errorf("%w: %s is a %s entry", domain.ErrTransactionNotPending, id, txn.Kind)
	}
	if txn.Status != domain.TxStatusPending {
		return fmt.Errorf("%w: %s is %s", domain.ErrTransactionNotPending, id, txn.Status)
	}

	if err := uc.transactionRepo.SetStatus(txCtx, tx, id, status, txHash); err != nil {
		return err
	}

	if err := uc.outboxRepo.Create(txCtx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   id,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     eventType,
		Payload: map[string]any{
			"transaction_id": id,
			"user_id":        txn.UserID,
			"amount":         txn.Amount.String(),
		},
		CreatedAt: uc.clock.Now().UTC(),
	}); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}
