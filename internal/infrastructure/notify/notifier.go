package notify

import (
	"context"
	"encoding/json"
	"time"

	"log/slog"

	"github.com/pdrm55/vesthub/internal/domain"
	"github.com/pdrm55/vesthub/internal/usecase"
)

// Publisher delivers a single notification to its channel (email, push, a
// message broker). Delivery is best-effort; the ledger never waits on it.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Notifier drains the outbox in the background: profit payouts, referral
// bonuses and withdrawal decisions are written to the outbox in the same
// database transaction as the ledger change, and delivered from here after
// commit. A failed delivery is retried on the next poll; a failure here can
// never affect accrual or withdrawals.
type Notifier struct {
	outboxRepo usecase.OutboxRepository
	publisher  Publisher
	logger     *slog.Logger
	batchSize  int
	interval   time.Duration
}

// Config for Notifier.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Publisher  Publisher
	Logger     *slog.Logger
	BatchSize  int
	Interval   time.Duration
}

// NewNotifier creates a new Notifier.
func NewNotifier(cfg Config) *Notifier {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Notifier{
		outboxRepo: cfg.OutboxRepo,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
	}
}

// Start runs the delivery loop until the context is cancelled.
func (n *Notifier) Start(ctx context.Context) error {
	n.logger.Info("notifier started",
		slog.Int("batch_size", n.batchSize),
		slog.Duration("interval", n.interval))

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	// Drain anything queued while we were down.
	if err := n.DeliverPending(ctx); err != nil {
		n.logger.Error("error delivering notifications on start", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("notifier shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := n.DeliverPending(ctx); err != nil {
				n.logger.Error("error delivering notifications", slog.String("error", err.Error()))
			}
		}
	}
}

// DeliverPending fetches one batch of undelivered notifications and publishes
// them in order. A single failed delivery is logged and retried next poll;
// the rest of the batch still goes out.
func (n *Notifier) DeliverPending(ctx context.Context) error {
	events, err := n.outboxRepo.GetUnpublished(ctx, n.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		if err := n.publisher.Publish(ctx, event); err != nil {
			n.logger.Error("failed to deliver notification",
				slog.String("event_id", event.ID),
				slog.String("event_type", event.EventType),
				slog.String("error", err.Error()))
			continue
		}

		if err := n.outboxRepo.MarkPublished(ctx, event.ID, time.Now().UTC()); err != nil {
			// The notification went out but is still marked pending, so
			// the next poll will deliver it again. Duplicate
			// notifications are acceptable; lost ones are not.
			n.logger.Error("failed to mark notification delivered",
				slog.String("event_id", event.ID),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

// LogPublisher writes notifications to the log. It is the default channel
// until a real delivery integration is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the notification payload.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info("notification",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.EventType),
		slog.String("aggregate_type", event.AggregateType),
		slog.String("aggregate_id", event.AggregateID),
		slog.String("payload", string(payload)))

	return nil
}
