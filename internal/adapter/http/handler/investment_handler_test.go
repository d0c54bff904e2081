package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/adapter/http/dto"
	"github.com/pdrm55/vesthub/internal/domain"
	"github.com/pdrm55/vesthub/internal/usecase"
)

type investmentServiceStub struct {
	createFn   func(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Investment, error)
	getFn      func(ctx context.Context, id string) (*domain.Investment, error)
	listFn     func(ctx context.Context, input usecase.ListInvestmentsInput) ([]*domain.Investment, error)
	activateFn func(ctx context.Context, id, paymentTxID string) error
	rejectFn   func(ctx context.Context, id string) error
	completeFn func(ctx context.Context, id string) error
}

func (s *investmentServiceStub) CreateInvestment(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Investment, error) {
	return s.createFn(ctx, input)
}

func (s *investmentServiceStub) GetInvestment(ctx context.Context, id string) (*domain.Investment, error) {
	return s.getFn(ctx, id)
}

func (s *investmentServiceStub) ListInvestments(ctx context.Context, input usecase.ListInvestmentsInput) ([]*domain.Investment, error) {
	return s.listFn(ctx, input)
}

func (s *investmentServiceStub) ActivateInvestment(ctx context.Context, id, paymentTxID string) error {
	return s.activateFn(ctx, id, paymentTxID)
}

func (s *investmentServiceStub) RejectInvestment(ctx context.Context, id string) error {
	return s.rejectFn(ctx, id)
}

func (s *investmentServiceStub) CompleteInvestment(ctx context.Context, id string) error {
	return s.completeFn(ctx, id)
}

func newInvestmentStub() *investmentServiceStub {
	return &investmentServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Investment, error) {
			return &domain.Investment{ID: "inv-1"}, nil
		},
		getFn: func(ctx context.Context, id string) (*domain.Investment, error) {
			return &domain.Investment{ID: id}, nil
		},
		listFn: func(ctx context.Context, input usecase.ListInvestmentsInput) ([]*domain.Investment, error) {
			return []*domain.Investment{}, nil
		},
		activateFn: func(ctx context.Context, id, paymentTxID string) error { return nil },
		rejectFn:   func(ctx context.Context, id string) error { return nil },
		completeFn: func(ctx context.Context, id string) error { return nil },
	}
}

func TestInvestmentHandler_Create_Success(t *testing.T) {
	stub := newInvestmentStub()

	var captured usecase.CreateInvestmentInput
	stub.createFn = func(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Investment, error) {
		captured = input
		return &domain.Investment{
			ID:        "inv-1",
			UserID:    input.UserID,
			PlanID:    input.PlanID,
			Principal: input.Principal,
			Status:    domain.InvestmentPendingPayment,
		}, nil
	}

	handler := NewInvestmentHandler(stub)

	body, _ := json.Marshal(dto.CreateInvestmentRequest{
		UserID:    "user-1",
		PlanID:    "plan-1",
		Principal: decimal.NewFromInt(1000),
	})

	req := httptest.NewRequest(http.MethodPost, "/investments", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.UserID != "user-1" || captured.PlanID != "plan-1" || !captured.Principal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.InvestmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != string(domain.InvestmentPendingPayment) {
		t.Fatalf("expected pending_payment status, got %s", resp.Status)
	}
}

func TestInvestmentHandler_Create_InvalidJSON(t *testing.T) {
	stub := newInvestmentStub()
	stub.createFn = func(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Investment, error) {
		t.Fatal("CreateInvestment should not be called for invalid payload")
		return nil, nil
	}
	handler := NewInvestmentHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/investments", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestInvestmentHandler_Create_PlanInactive(t *testing.T) {
	stub := newInvestmentStub()
	stub.createFn = func(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Investment, error) {
		return nil, domain.ErrPlanInactive
	}
	handler := NewInvestmentHandler(stub)

	body, _ := json.Marshal(dto.CreateInvestmentRequest{UserID: "user-1", PlanID: "plan-closed"})
	req := httptest.NewRequest(http.MethodPost, "/investments", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestInvestmentHandler_Get_NotFound(t *testing.T) {
	stub := newInvestmentStub()
	stub.getFn = func(ctx context.Context, id string) (*domain.Investment, error) {
		return nil, domain.ErrInvestmentNotFound
	}
	handler := NewInvestmentHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/investments/inv-404", nil)
	req = setChiURLParam(req, "id", "inv-404")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestInvestmentHandler_Activate(t *testing.T) {
	stub := newInvestmentStub()

	var activatedID, paymentRef string
	stub.activateFn = func(ctx context.Context, id, paymentTxID string) error {
		activatedID = id
		paymentRef = paymentTxID
		return nil
	}
	stub.getFn = func(ctx context.Context, id string) (*domain.Investment, error) {
		return &domain.Investment{ID: id, Status: domain.InvestmentActive}, nil
	}
	handler := NewInvestmentHandler(stub)

	body, _ := json.Marshal(dto.ActivateInvestmentRequest{PaymentTxID: "0xdeadbeef"})
	req := httptest.NewRequest(http.MethodPost, "/investments/inv-1/activate", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "inv-1")
	rec := httptest.NewRecorder()

	handler.Activate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if activatedID != "inv-1" || paymentRef != "0xdeadbeef" {
		t.Fatalf("expected activation with payment ref, got id=%s ref=%s", activatedID, paymentRef)
	}

	var resp dto.InvestmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != string(domain.InvestmentActive) {
		t.Fatalf("expected active status, got %s", resp.Status)
	}
}

func TestInvestmentHandler_Activate_WrongStatus(t *testing.T) {
	stub := newInvestmentStub()
	stub.activateFn = func(ctx context.Context, id, paymentTxID string) error {
		return domain.ErrInvalidInvestmentStatus
	}
	handler := NewInvestmentHandler(stub)

	body, _ := json.Marshal(dto.ActivateInvestmentRequest{PaymentTxID: "0xdeadbeef"})
	req := httptest.NewRequest(http.MethodPost, "/investments/inv-1/activate", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "inv-1")
	rec := httptest.NewRecorder()

	handler.Activate(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestInvestmentHandler_Complete(t *testing.T) {
	stub := newInvestmentStub()

	var completedID string
	stub.completeFn = func(ctx context.Context, id string) error {
		completedID = id
		return nil
	}
	handler := NewInvestmentHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/investments/inv-1/complete", nil)
	req = setChiURLParam(req, "id", "inv-1")
	rec := httptest.NewRecorder()

	handler.Complete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if completedID != "inv-1" {
		t.Fatalf("expected complete on inv-1, got %s", completedID)
	}
}

func TestInvestmentHandler_List(t *testing.T) {
	stub := newInvestmentStub()
	stub.listFn = func(ctx context.Context, input usecase.ListInvestmentsInput) ([]*domain.Investment, error) {
		if input.UserID != "user-1" || input.Limit != 5 || input.Offset != 2 {
			t.Fatalf("expected user-1 limit=5 offset=2, got %+v", input)
		}
		return []*domain.Investment{{ID: "inv-1"}, {ID: "inv-2"}}, nil
	}
	handler := NewInvestmentHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/investments?user_id=user-1&limit=5&offset=2", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []*dto.InvestmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 investments, got %d", len(resp))
	}
}

func TestInvestmentHandler_List_ServiceError(t *testing.T) {
	stub := newInvestmentStub()
	stub.listFn = func(ctx context.Context, input usecase.ListInvestmentsInput) ([]*domain.Investment, error) {
		return nil, errors.New("db error")
	}
	handler := NewInvestmentHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/investments", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
