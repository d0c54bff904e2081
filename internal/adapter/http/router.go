package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pdrm55/vesthub/internal/adapter/http/handler"
	"github.com/pdrm55/vesthub/internal/adapter/http/middleware"
	"github.com/pdrm55/vesthub/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	InvestmentHandler *handler.InvestmentHandler
	BalanceHandler    *handler.BalanceHandler
	WithdrawalHandler *handler.WithdrawalHandler
	AccrualHandler    *handler.AccrualHandler
	SettingsHandler   *handler.SettingsHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	RateLimiter       *middleware.RateLimiter
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Investments
		r.Route("/investments", func(r chi.Router) {
			r.Post("/", cfg.InvestmentHandler.Create)
			r.Get("/", cfg.InvestmentHandler.List)
			r.Get("/{id}", cfg.InvestmentHandler.Get)
			r.Post("/{id}/activate", cfg.InvestmentHandler.Activate)
			r.Post("/{id}/reject", cfg.InvestmentHandler.Reject)
			r.Post("/{id}/complete", cfg.InvestmentHandler.Complete)
		})

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Get("/{id}/balance", cfg.BalanceHandler.GetBalance)
			r.Get("/{id}/transactions", cfg.BalanceHandler.ListTransactions)
		})

		// Withdrawals
		r.Route("/withdrawals", func(r chi.Router) {
			r.Post("/", cfg.WithdrawalHandler.Create)
			r.Post("/{id}/approve", cfg.WithdrawalHandler.Approve)
			r.Post("/{id}/reject", cfg.WithdrawalHandler.Reject)
		})

		// Accrual operations
		r.Post("/accrual/run", cfg.AccrualHandler.RunAccrual)
		r.Post("/recovery/run", cfg.AccrualHandler.RunRecovery)

		// Settings
		r.Route("/settings", func(r chi.Router) {
			r.Get("/referral-percentage", cfg.SettingsHandler.GetReferralPercentage)
			r.Put("/referral-percentage", cfg.SettingsHandler.UpdateReferralPercentage)
		})
	})

	return r
}
