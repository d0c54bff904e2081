package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/pdrm55/vesthub/internal/usecase"
)

// Scheduler drives the accrual engine on the clock. The schedule runs in UTC
// because profit days are UTC calendar days; running off local time would
// double-pay or skip a day around DST changes.
type Scheduler struct {
	accrual   *usecase.AccrualUseCase
	scheduler *gocron.Scheduler
	logger    zerolog.Logger
	cron      string
}

// New creates a Scheduler with the given cron expression for the daily run.
func New(accrual *usecase.AccrualUseCase, cron string, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		accrual:   accrual,
		scheduler: gocron.NewScheduler(time.UTC),
		logger:    logger,
		cron:      cron,
	}
}

// Start registers the daily accrual job and launches the scheduler in the
// background. The job body also runs recovery first, so a run that was missed
// entirely (process down at the scheduled time, crash mid-run) is healed by
// the next scheduled run without operator action.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Cron(s.cron).Do(func() {
		ctx := context.Background()
		now := time.Now().UTC()

		recovered, err := s.accrual.RunRecovery(ctx, now)
		if err != nil {
			s.logger.Error().Err(err).Msg("scheduled recovery failed")
		} else if recovered > 0 {
			s.logger.Warn().Int("recovered", recovered).Msg("scheduled run backfilled missed payouts")
		}

		if _, err := s.accrual.RunAccrual(ctx, now); err != nil {
			s.logger.Error().Err(err).Msg("scheduled accrual failed")
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info().Str("cron", s.cron).Msg("accrual scheduler started")

	return nil
}

// Stop halts the scheduler. A run already in progress finishes; its
// per-investment transactions commit independently anyway.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
