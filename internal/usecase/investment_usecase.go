package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/domain"
)

// InvestmentUseCase handles the investment lifecycle around the accrual
// engine: creation, activation on deposit approval, rejection, completion.
type InvestmentUseCase struct {
	txManager       TransactionManager
	investmentRepo  InvestmentRepository
	transactionRepo TransactionRepository
	userRepo        UserRepository
	planRepo        PlanRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	clock           Clock
	logger          zerolog.Logger
}

// NewInvestmentUseCase creates a new InvestmentUseCase.
func NewInvestmentUseCase(
	txManager TransactionManager,
	investmentRepo InvestmentRepository,
	transactionRepo TransactionRepository,
	userRepo UserRepository,
	planRepo PlanRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
) *InvestmentUseCase {
	return &InvestmentUseCase{
		txManager:       txManager,
		investmentRepo:  investmentRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		planRepo:        planRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		clock:           clock,
		logger:          logger,
	}
}

// CreateInvestmentInput represents input for creating an investment.
type CreateInvestmentInput struct {
	UserID    string
	PlanID    string
	Principal decimal.Decimal
}

// CreateInvestment records a new commitment in pending_payment. Accrual does
// not touch it until a deposit is approved and the status moves to active.
func (uc *InvestmentUseCase) CreateInvestment(ctx context.Context, input CreateInvestmentInput) (*domain.Investment, error) {
	if err := domain.ValidateAmount(input.Principal); err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	plan, err := uc.planRepo.GetByID(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, domain.ErrPlanInactive
	}

	now := uc.clock.Now().UTC()
	inv := &domain.Investment{
		ID:        uc.idGen.Generate(),
		UserID:    input.UserID,
		PlanID:    input.PlanID,
		Principal: input.Principal,
		Status:    domain.InvestmentPendingPayment,
		StartDate: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.investmentRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// ActivateInvestment approves the deposit backing an investment: it appends a
// completed deposit entry to the ledger, records the payment reference, and
// moves the investment to active so accrual picks it up.
func (uc *InvestmentUseCase) ActivateInvestment(ctx context.Context, id, paymentTxID string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	inv, err := uc.investmentRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}
	if !inv.CanTransitionTo(domain.InvestmentActive) {
		return domain.ErrInvalidInvestmentStatus
	}

	now := uc.clock.Now().UTC()

	deposit := &domain.Transaction{
		ID:           uc.idGen.Generate(),
		UserID:       inv.UserID,
		InvestmentID: &inv.ID,
		Kind:         domain.TxKindDeposit,
		Amount:       inv.Principal,
		Status:       domain.TxStatusCompleted,
		Description:  "Deposit approved",
		CreatedAt:    now,
	}
	if paymentTxID != "" {
		deposit.TxHash = &paymentTxID
	}
	if err := uc.transactionRepo.Create(txCtx, tx, deposit); err != nil {
		return err
	}

	if paymentTxID != "" {
		if err := uc.investmentRepo.SetPaymentTxID(txCtx, tx, inv.ID, paymentTxID, now); err != nil {
			return err
		}
	}

	// Restart accrual from the approval day; days spent pending payment
	// never earn profit.
	if err := uc.investmentRepo.SetStartDate(txCtx, tx, inv.ID, now, now); err != nil {
		return err
	}

	if err := uc.investmentRepo.UpdateStatus(txCtx, tx, inv.ID, domain.InvestmentActive, now); err != nil {
		return err
	}

	if err := uc.outboxRepo.Create(txCtx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   inv.ID,
		AggregateType: domain.AggregateTypeInvestment,
		EventType:     domain.EventTypeInvestmentActivated,
		Payload: map[string]any{
			"investment_id": inv.ID,
			"user_id":       inv.UserID,
			"principal":     inv.Principal.String(),
		},
		CreatedAt: now,
	}); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// RejectInvestment closes a pending_payment investment without activating it.
func (uc *InvestmentUseCase) RejectInvestment(ctx context.Context, id string) error {
	return uc.transition(ctx, id, domain.InvestmentRejected)
}

// CompleteInvestment ends an active investment; accrual stops from the next run.
func (uc *InvestmentUseCase) CompleteInvestment(ctx context.Context, id string) error {
	return uc.transition(ctx, id, domain.InvestmentCompleted)
}

func (uc *InvestmentUseCase) transition(ctx context.Context, id string, next domain.InvestmentStatus) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	inv, err := uc.investmentRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}
	if !inv.CanTransitionTo(next) {
		return domain.ErrInvalidInvestmentStatus
	}

	if err := uc.investmentRepo.UpdateStatus(txCtx, tx, inv.ID, next, uc.clock.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// GetInvestment retrieves an investment by ID.
func (uc *InvestmentUseCase) GetInvestment(ctx context.Context, id string) (*domain.Investment, error) {
	return uc.investmentRepo.GetByID(ctx, id)
}

// ListInvestmentsInput represents input for listing a user's investments.
type ListInvestmentsInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListInvestments lists a user's investments.
func (uc *InvestmentUseCase) ListInvestments(ctx context.Context, input ListInvestmentsInput) ([]*domain.Investment, error) {
	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.investmentRepo.ListByUser(ctx, input.UserID, limit, offset)
}
