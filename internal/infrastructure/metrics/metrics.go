package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Accrual metrics
	PayoutsTotal          prometheus.Counter
	RecoveredPayoutsTotal prometheus.Counter
	AccrualErrors         *prometheus.CounterVec
	AccrualDuration       *prometheus.HistogramVec

	// Withdrawal metrics
	WithdrawalsDecided *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		PayoutsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vesthub_payouts_total",
			Help: "Total number of daily profit payouts recorded by the accrual run",
		}),
		RecoveredPayoutsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vesthub_recovered_payouts_total",
			Help: "Total number of missed payouts backfilled by the recovery run",
		}),
		AccrualErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vesthub_accrual_errors_total",
			Help: "Per-investment failures, labelled by run type",
		}, []string{"run"}),
		AccrualDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vesthub_accrual_run_duration_seconds",
			Help:    "Duration of full accrual and recovery runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{"run"}),
		WithdrawalsDecided: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vesthub_withdrawals_decided_total",
			Help: "Withdrawal admission decisions, labelled accepted or rejected",
		}, []string{"outcome"}),
	}
}
