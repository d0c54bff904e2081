package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/pdrm55/vesthub/internal/adapter/http"
	"github.com/pdrm55/vesthub/internal/adapter/http/handler"
	postgresRepo "github.com/pdrm55/vesthub/internal/adapter/repository/postgres"
	redisRepo "github.com/pdrm55/vesthub/internal/adapter/repository/redis"
	"github.com/pdrm55/vesthub/internal/infrastructure/config"
	"github.com/pdrm55/vesthub/internal/infrastructure/logger"
	"github.com/pdrm55/vesthub/internal/infrastructure/metrics"
	"github.com/pdrm55/vesthub/internal/infrastructure/notify"
	"github.com/pdrm55/vesthub/internal/infrastructure/postgres"
	"github.com/pdrm55/vesthub/internal/infrastructure/redis"
	"github.com/pdrm55/vesthub/internal/infrastructure/scheduler"
	"github.com/pdrm55/vesthub/internal/usecase"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	investmentRepo := postgresRepo.NewInvestmentRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	planRepo := postgresRepo.NewPlanRepository(pool)
	settingRepo := postgresRepo.NewSettingRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()
	clock := usecase.NewSystemClock()
	m := metrics.New()

	// Use cases
	settingsUC := usecase.NewSettingsUseCase(settingRepo, cache, appLogger)
	accrualUC := usecase.NewAccrualUseCase(
		txManager, investmentRepo, transactionRepo, userRepo, planRepo,
		outboxRepo, settingsUC, idGen, retrier, clock, m, appLogger,
	)
	investmentUC := usecase.NewInvestmentUseCase(
		txManager, investmentRepo, transactionRepo, userRepo, planRepo,
		outboxRepo, idGen, clock, appLogger,
	)
	balanceUC := usecase.NewBalanceUseCase(transactionRepo, userRepo)
	withdrawalUC := usecase.NewWithdrawalUseCase(
		txManager, transactionRepo, userRepo, outboxRepo, idGen, clock, m, appLogger,
	)

	// Outbox notifier
	notifierCtx, stopNotifier := context.WithCancel(ctx)
	defer stopNotifier()

	notifier := notify.NewNotifier(notify.Config{
		OutboxRepo: outboxRepo,
		Publisher:  notify.NewLogPublisher(nil),
		Interval:   time.Duration(cfg.OutboxPollSeconds) * time.Second,
	})
	go func() {
		if err := notifier.Start(notifierCtx); err != nil && notifierCtx.Err() == nil {
			appLogger.Error().Err(err).Msg("notifier stopped")
		}
	}()

	// Catch up on any missed accrual days before the first scheduled run.
	if cfg.RecoverOnStartup {
		if recovered, err := accrualUC.RunRecovery(ctx, clock.Now()); err != nil {
			appLogger.Error().Err(err).Msg("startup recovery failed")
		} else if recovered > 0 {
			appLogger.Info().Int("payouts", recovered).Msg("startup recovery backfilled missed days")
		}
	}

	// Daily accrual schedule
	sched := scheduler.New(accrualUC, cfg.AccrualCron, appLogger)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start accrual scheduler")
	}
	defer sched.Stop()

	// HTTP layer
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		InvestmentHandler: handler.NewInvestmentHandler(investmentUC),
		BalanceHandler:    handler.NewBalanceHandler(balanceUC),
		WithdrawalHandler: handler.NewWithdrawalHandler(withdrawalUC),
		AccrualHandler:    handler.NewAccrualHandler(accrualUC),
		SettingsHandler:   handler.NewSettingsHandler(settingsUC),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:  idempotencyStore,
		Logger:            appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	stopNotifier()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
