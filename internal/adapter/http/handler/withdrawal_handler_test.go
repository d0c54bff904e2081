package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/adapter/http/dto"
	"github.com/pdrm55/vesthub/internal/domain"
)

type withdrawalServiceStub struct {
	requestFn func(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error)
	approveFn func(ctx context.Context, id string, txHash *string) error
	rejectFn  func(ctx context.Context, id string) error
}

func (s *withdrawalServiceStub) RequestWithdrawal(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.requestFn(ctx, userID, amount)
}

func (s *withdrawalServiceStub) ApproveWithdrawal(ctx context.Context, id string, txHash *string) error {
	return s.approveFn(ctx, id, txHash)
}

func (s *withdrawalServiceStub) RejectWithdrawal(ctx context.Context, id string) error {
	return s.rejectFn(ctx, id)
}

func newWithdrawalStub() *withdrawalServiceStub {
	return &withdrawalServiceStub{
		requestFn: func(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error) {
			return &domain.Transaction{ID: "txn-1", UserID: userID, Amount: amount}, nil
		},
		approveFn: func(ctx context.Context, id string, txHash *string) error { return nil },
		rejectFn:  func(ctx context.Context, id string) error { return nil },
	}
}

func TestWithdrawalHandler_Create_Success(t *testing.T) {
	stub := newWithdrawalStub()
	stub.requestFn = func(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error) {
		return &domain.Transaction{
			ID:     "txn-1",
			UserID: userID,
			Kind:   domain.TxKindWithdrawal,
			Status: domain.TxStatusPending,
			Amount: amount,
		}, nil
	}
	handler := NewWithdrawalHandler(stub)

	body, _ := json.Marshal(dto.CreateWithdrawalRequest{
		UserID: "user-1",
		Amount: decimal.RequireFromString("50.5"),
	})

	req := httptest.NewRequest(http.MethodPost, "/withdrawals", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Kind != string(domain.TxKindWithdrawal) || resp.Status != string(domain.TxStatusPending) {
		t.Fatalf("expected pending withdrawal, got kind=%s status=%s", resp.Kind, resp.Status)
	}
	if !resp.Amount.Equal(decimal.RequireFromString("50.5")) {
		t.Fatalf("expected amount 50.5, got %s", resp.Amount)
	}
}

func TestWithdrawalHandler_Create_InsufficientBalance(t *testing.T) {
	stub := newWithdrawalStub()
	stub.requestFn = func(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error) {
		return nil, domain.ErrInsufficientBalance
	}
	handler := NewWithdrawalHandler(stub)

	body, _ := json.Marshal(dto.CreateWithdrawalRequest{UserID: "user-1", Amount: decimal.NewFromInt(999)})
	req := httptest.NewRequest(http.MethodPost, "/withdrawals", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestWithdrawalHandler_Create_InvalidJSON(t *testing.T) {
	stub := newWithdrawalStub()
	stub.requestFn = func(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error) {
		t.Fatal("RequestWithdrawal should not be called for invalid payload")
		return nil, nil
	}
	handler := NewWithdrawalHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/withdrawals", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWithdrawalHandler_Approve_WithTxHash(t *testing.T) {
	stub := newWithdrawalStub()

	var gotID string
	var gotHash *string
	stub.approveFn = func(ctx context.Context, id string, txHash *string) error {
		gotID = id
		gotHash = txHash
		return nil
	}
	handler := NewWithdrawalHandler(stub)

	hash := "0xabc123"
	body, _ := json.Marshal(dto.ApproveWithdrawalRequest{TxHash: &hash})
	req := httptest.NewRequest(http.MethodPost, "/withdrawals/txn-1/approve", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "txn-1")
	rec := httptest.NewRecorder()

	handler.Approve(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != "txn-1" {
		t.Fatalf("expected approve on txn-1, got %s", gotID)
	}
	if gotHash == nil || *gotHash != "0xabc123" {
		t.Fatalf("expected tx hash to be forwarded, got %v", gotHash)
	}
}

func TestWithdrawalHandler_Approve_EmptyBody(t *testing.T) {
	stub := newWithdrawalStub()

	var gotHash *string
	stub.approveFn = func(ctx context.Context, id string, txHash *string) error {
		gotHash = txHash
		return nil
	}
	handler := NewWithdrawalHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/withdrawals/txn-1/approve", nil)
	req = setChiURLParam(req, "id", "txn-1")
	rec := httptest.NewRecorder()

	handler.Approve(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotHash != nil {
		t.Fatalf("expected nil tx hash, got %v", *gotHash)
	}
}

func TestWithdrawalHandler_Approve_NotPending(t *testing.T) {
	stub := newWithdrawalStub()
	stub.approveFn = func(ctx context.Context, id string, txHash *string) error {
		return domain.ErrTransactionNotPending
	}
	handler := NewWithdrawalHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/withdrawals/txn-1/approve", nil)
	req = setChiURLParam(req, "id", "txn-1")
	rec := httptest.NewRecorder()

	handler.Approve(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestWithdrawalHandler_Reject(t *testing.T) {
	stub := newWithdrawalStub()

	var rejectedID string
	stub.rejectFn = func(ctx context.Context, id string) error {
		rejectedID = id
		return nil
	}
	handler := NewWithdrawalHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/withdrawals/txn-1/reject", nil)
	req = setChiURLParam(req, "id", "txn-1")
	rec := httptest.NewRecorder()

	handler.Reject(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rejectedID != "txn-1" {
		t.Fatalf("expected reject on txn-1, got %s", rejectedID)
	}
}

func TestWithdrawalHandler_Reject_MissingID(t *testing.T) {
	handler := NewWithdrawalHandler(newWithdrawalStub())

	req := httptest.NewRequest(http.MethodPost, "/withdrawals//reject", nil)
	rec := httptest.NewRecorder()

	handler.Reject(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
