package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/domain"
	"github.com/pdrm55/vesthub/internal/infrastructure/metrics"
)

// ReferralRateSource supplies the current referral percentage.
type ReferralRateSource interface {
	ReferralPercentage(ctx context.Context) (decimal.Decimal, error)
}

// AccrualUseCase computes and records daily profit and referral bonuses. Each
// investment is processed as its own short-lived transaction under a row lock,
// so a failure on one investment never rolls back or blocks payouts already
// committed for the others.
type AccrualUseCase struct {
	txManager       TransactionManager
	investmentRepo  InvestmentRepository
	transactionRepo TransactionRepository
	userRepo        UserRepository
	planRepo        PlanRepository
	outboxRepo      OutboxRepository
	rates           ReferralRateSource
	idGen           IDGenerator
	retrier         Retrier
	clock           Clock
	metrics         *metrics.Metrics
	logger          zerolog.Logger
}

// NewAccrualUseCase creates a new AccrualUseCase. metrics may be nil.
func NewAccrualUseCase(
	txManager TransactionManager,
	investmentRepo InvestmentRepository,
	transactionRepo TransactionRepository,
	userRepo UserRepository,
	planRepo PlanRepository,
	outboxRepo OutboxRepository,
	rates ReferralRateSource,
	idGen IDGenerator,
	retrier Retrier,
	clock Clock,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *AccrualUseCase {
	return &AccrualUseCase{
		txManager:       txManager,
		investmentRepo:  investmentRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		planRepo:        planRepo,
		outboxRepo:      outboxRepo,
		rates:           rates,
		idGen:           idGen,
		retrier:         retrier,
		clock:           clock,
		metrics:         m,
		logger:          logger,
	}
}

// RunAccrual pays one day's profit for every active investment not yet paid
// for asOf's calendar day. It returns the number of investments paid. A
// per-investment failure is logged and skipped; the batch itself only fails
// when the list of active investments cannot be loaded.
func (uc *AccrualUseCase) RunAccrual(ctx context.Context, asOf time.Time) (int, error) {
	day := domain.DateOf(asOf)
	started := uc.clock.Now()
	refPercent := uc.referralPercent(ctx)

	ids, err := uc.investmentRepo.ListActiveIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active investments: %w", err)
	}

	count := 0
	for _, id := range ids {
		paid, err := uc.accrueInvestment(ctx, id, day, refPercent)
		if err != nil {
			uc.logger.Error().
				Err(err).
				Str("investment_id", id).
				Str("day", day.Format(domain.DateLayout)).
				Msg("accrual failed for investment")
			if uc.metrics != nil {
				uc.metrics.AccrualErrors.WithLabelValues("accrual").Inc()
			}
			continue
		}
		if paid {
			count++
			if uc.metrics != nil {
				uc.metrics.PayoutsTotal.Inc()
			}
		}
	}

	if uc.metrics != nil {
		uc.metrics.AccrualDuration.WithLabelValues("accrual").Observe(time.Since(started).Seconds())
	}
	uc.logger.Info().
		Int("payouts", count).
		Int("active_investments", len(ids)).
		Str("day", day.Format(domain.DateLayout)).
		Msg("profit distribution completed")

	return count, nil
}

func (uc *AccrualUseCase) accrueInvestment(ctx context.Context, id string, day time.Time, refPercent decimal.Decimal) (bool, error) {
	var paid bool

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		paid, err = uc.accrueOnce(ctx, id, day, refPercent)
		return err
	})

	return paid, err
}

// accrueOnce is one unit of work: lock the investment row, check the
// idempotency guard, write the payout, advance last_profit_date, commit.
func (uc *AccrualUseCase) accrueOnce(ctx context.Context, id string, day time.Time, refPercent decimal.Decimal) (bool, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	inv, err := uc.investmentRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return false, err
	}

	// Status may have changed between listing and locking.
	if inv.Status != domain.InvestmentActive {
		return false, nil
	}

	// Primary defense against overlapping scheduler runs.
	if inv.PaidOn(day) {
		return false, nil
	}

	now := uc.clock.Now().UTC()
	if err := uc.writePayout(txCtx, tx, inv, day, now, refPercent); err != nil {
		return false, err
	}

	if err := uc.investmentRepo.SetLastProfitDate(txCtx, tx, inv.ID, day, now); err != nil {
		return false, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return false, err
	}

	return true, nil
}

// writePayout appends the profit entry for one investment-day, plus the
// referral bonus entry for the investor's direct referrer when one exists.
// The entry timestamp is caller-supplied: "now" for the daily run, midday of
// the backfilled day for recovery.
func (uc *AccrualUseCase) writePayout(ctx context.Context, tx Transaction, inv *domain.Investment, day, at time.Time, refPercent decimal.Decimal) error {
	plan, err := uc.planRepo.GetByID(ctx, inv.PlanID)
	if err != nil {
		return fmt.Errorf("load plan %s: %w", inv.PlanID, err)
	}

	user, err := uc.userRepo.GetByID(ctx, inv.UserID)
	if err != nil {
		return fmt.Errorf("load user %s: %w", inv.UserID, err)
	}

	profit := inv.DailyProfit(plan.AnnualRate)
	if !profit.IsPositive() {
		// A principal small enough to quantize to zero still consumes the day.
		return nil
	}

	profitTxn := &domain.Transaction{
		ID:           uc.idGen.Generate(),
		UserID:       inv.UserID,
		InvestmentID: &inv.ID,
		Kind:         domain.TxKindProfit,
		Amount:       profit,
		Status:       domain.TxStatusCompleted,
		Description:  fmt.Sprintf("Daily profit for plan %s", plan.Name),
		CreatedAt:    at,
	}
	if err := uc.transactionRepo.Create(ctx, tx, profitTxn); err != nil {
		return fmt.Errorf("record profit: %w", err)
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   inv.ID,
		AggregateType: domain.AggregateTypeInvestment,
		EventType:     domain.EventTypeProfitPaid,
		Payload: map[string]any{
			"investment_id": inv.ID,
			"user_id":       inv.UserID,
			"amount":        profit.String(),
			"day":           day.Format(domain.DateLayout),
		},
		CreatedAt: at,
	}); err != nil {
		return fmt.Errorf("enqueue profit notification: %w", err)
	}

	if !user.HasReferrer() {
		return nil
	}

	bonus := domain.ReferralBonus(profit, refPercent)
	if !bonus.IsPositive() {
		return nil
	}

	bonusTxn := &domain.Transaction{
		ID:           uc.idGen.Generate(),
		UserID:       *user.ReferrerID,
		InvestmentID: &inv.ID,
		Kind:         domain.TxKindReferralBonus,
		Amount:       bonus,
		Status:       domain.TxStatusCompleted,
		Description:  fmt.Sprintf("Referral bonus from (%s)", user.Email),
		CreatedAt:    at,
	}
	if err := uc.transactionRepo.Create(ctx, tx, bonusTxn); err != nil {
		return fmt.Errorf("record referral bonus: %w", err)
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   inv.ID,
		AggregateType: domain.AggregateTypeInvestment,
		EventType:     domain.EventTypeReferralBonusPaid,
		Payload: map[string]any{
			"investment_id": inv.ID,
			"user_id":       *user.ReferrerID,
			"amount":        bonus.String(),
			"day":           day.Format(domain.DateLayout),
		},
		CreatedAt: at,
	}); err != nil {
		return fmt.Errorf("enqueue bonus notification: %w", err)
	}

	return nil
}

// referralPercent reads the configured referral percentage, falling back to
// the default when the settings store is unavailable or holds garbage.
func (uc *AccrualUseCase) referralPercent(ctx context.Context) decimal.Decimal {
	percent, err := uc.rates.ReferralPercentage(ctx)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("falling back to default referral percentage")
		percent, _ = decimal.NewFromString(domain.DefaultReferralPercentage)
	}
	return percent
}
