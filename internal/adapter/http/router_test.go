package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/adapter/http/handler"
	apimiddleware "github.com/pdrm55/vesthub/internal/adapter/http/middleware"
	"github.com/pdrm55/vesthub/internal/domain"
	"github.com/pdrm55/vesthub/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"user_id":"user-1","amount":"25"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/withdrawals/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/investments/",
		"GET /api/v1/investments/{id}",
		"POST /api/v1/investments/{id}/activate",
		"GET /api/v1/users/{id}/balance",
		"GET /api/v1/users/{id}/transactions",
		"POST /api/v1/withdrawals/",
		"POST /api/v1/withdrawals/{id}/approve",
		"POST /api/v1/accrual/run",
		"POST /api/v1/recovery/run",
		"GET /api/v1/settings/referral-percentage",
		"PUT /api/v1/settings/referral-percentage",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		InvestmentHandler: handler.NewInvestmentHandler(stubInvestmentService{}),
		BalanceHandler:    handler.NewBalanceHandler(stubBalanceService{}),
		WithdrawalHandler: handler.NewWithdrawalHandler(stubWithdrawalService{}),
		AccrualHandler:    handler.NewAccrualHandler(stubAccrualService{}),
		SettingsHandler:   handler.NewSettingsHandler(stubSettingsService{}),
		HealthHandler:     &handler.HealthHandler{},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubInvestmentService struct{}

func (stubInvestmentService) CreateInvestment(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Investment, error) {
	return &domain.Investment{ID: "inv"}, nil
}

func (stubInvestmentService) GetInvestment(ctx context.Context, id string) (*domain.Investment, error) {
	return &domain.Investment{ID: id}, nil
}

func (stubInvestmentService) ListInvestments(ctx context.Context, input usecase.ListInvestmentsInput) ([]*domain.Investment, error) {
	return []*domain.Investment{}, nil
}

func (stubInvestmentService) ActivateInvestment(ctx context.Context, id, paymentTxID string) error {
	return nil
}

func (stubInvestmentService) RejectInvestment(ctx context.Context, id string) error { return nil }

func (stubInvestmentService) CompleteInvestment(ctx context.Context, id string) error { return nil }

type stubBalanceService struct{}

func (stubBalanceService) WithdrawableBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (stubBalanceService) ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error) {
	return []*domain.Transaction{}, nil
}

type stubWithdrawalService struct{}

func (stubWithdrawalService) RequestWithdrawal(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error) {
	return &domain.Transaction{ID: "txn"}, nil
}

func (stubWithdrawalService) ApproveWithdrawal(ctx context.Context, id string, txHash *string) error {
	return nil
}

func (stubWithdrawalService) RejectWithdrawal(ctx context.Context, id string) error { return nil }

type stubAccrualService struct{}

func (stubAccrualService) RunAccrual(ctx context.Context, asOf time.Time) (int, error) {
	return 0, nil
}

func (stubAccrualService) RunRecovery(ctx context.Context, asOf time.Time) (int, error) {
	return 0, nil
}

type stubSettingsService struct{}

func (stubSettingsService) ReferralPercentage(ctx context.Context) (decimal.Decimal, error) {
	return decimal.RequireFromString("2.0"), nil
}

func (stubSettingsService) SetReferralPercentage(ctx context.Context, percent decimal.Decimal) error {
	return nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
