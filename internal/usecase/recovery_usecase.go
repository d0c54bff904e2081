package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/domain"
)

// RunRecovery walks each active investment's day-by-day history since its last
// recorded payout and fills any gap with exactly the entries RunAccrual would
// have produced on that day. Every candidate day is checked against the ledger
// itself rather than trusting last_profit_date, which makes the walk safe to
// run arbitrarily many times, including concurrently with the daily run. It
// returns the number of recovered payouts.
func (uc *AccrualUseCase) RunRecovery(ctx context.Context, asOf time.Time) (int, error) {
	day := domain.DateOf(asOf)
	started := uc.clock.Now()
	refPercent := uc.referralPercent(ctx)

	ids, err := uc.investmentRepo.ListActiveIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active investments: %w", err)
	}

	recovered := 0
	for _, id := range ids {
		n, err := uc.recoverInvestment(ctx, id, day, refPercent)
		recovered += n
		if err != nil {
			uc.logger.Error().
				Err(err).
				Str("investment_id", id).
				Msg("recovery failed for investment")
			if uc.metrics != nil {
				uc.metrics.AccrualErrors.WithLabelValues("recovery").Inc()
			}
			continue
		}
	}

	if uc.metrics != nil {
		uc.metrics.AccrualDuration.WithLabelValues("recovery").Observe(time.Since(started).Seconds())
	}
	uc.logger.Info().
		Int("recovered_payouts", recovered).
		Int("active_investments", len(ids)).
		Str("through", day.Format(domain.DateLayout)).
		Msg("recovery completed")

	return recovered, nil
}

// recoverInvestment walks one investment from its first unpaid day through
// asOf inclusive. Each day is its own committed unit of work so partial
// progress survives a crash mid-walk. On a day-level failure the walk stops
// for this investment; the payouts already committed stand.
func (uc *AccrualUseCase) recoverInvestment(ctx context.Context, id string, asOf time.Time, refPercent decimal.Decimal) (int, error) {
	inv, err := uc.investmentRepo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if inv.Status != domain.InvestmentActive {
		return 0, nil
	}

	recovered := 0
	for d := inv.AccrualStart(); !d.After(asOf); d = d.AddDate(0, 0, 1) {
		var wrote bool

		err := uc.retrier.Retry(ctx, func() error {
			var err error
			wrote, err = uc.recoverDay(ctx, id, d, refPercent)
			return err
		})
		if err != nil {
			return recovered, fmt.Errorf("day %s: %w", d.Format(domain.DateLayout), err)
		}

		if wrote {
			recovered++
			if uc.metrics != nil {
				uc.metrics.RecoveredPayoutsTotal.Inc()
			}
		}
	}

	return recovered, nil
}

// recoverDay is one unit of work: lock the investment row, ask the ledger
// whether a profit entry for this day already exists, write the missing
// payout dated midday of that day, advance last_profit_date, commit.
func (uc *AccrualUseCase) recoverDay(ctx context.Context, id string, day time.Time, refPercent decimal.Decimal) (bool, error) {
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
	if inv.Status != domain.InvestmentActive {
		return false, nil
	}

	// The load-bearing idempotency guard: the ledger row, not the marker.
	exists, err := uc.transactionRepo.ProfitExistsOn(txCtx, tx, id, day)
	if err != nil {
		return false, err
	}

	wrote := false
	if !exists {
		if err := uc.writePayout(txCtx, tx, inv, day, domain.MiddayOf(day), refPercent); err != nil {
			return false, err
		}
		wrote = true
	}

	// last_profit_date only ever advances forward.
	if inv.LastProfitDate == nil || domain.DateOf(*inv.LastProfitDate).Before(day) {
		if err := uc.investmentRepo.SetLastProfitDate(txCtx, tx, inv.ID, day, uc.clock.Now().UTC()); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return false, err
	}

	return wrote, nil
}
