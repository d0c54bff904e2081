package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/adapter/http/dto"
	"github.com/pdrm55/vesthub/internal/domain"
)

// WithdrawalService defines the behavior needed by WithdrawalHandler.
type WithdrawalService interface {
	RequestWithdrawal(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error)
	ApproveWithdrawal(ctx context.Context, id string, txHash *string) error
	RejectWithdrawal(ctx context.Context, id string) error
}

// WithdrawalHandler handles withdrawal-related HTTP requests.
type WithdrawalHandler struct {
	withdrawalUC WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalUC WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalUC: withdrawalUC}
}

// Create admits a withdrawal request against the derived balance.
func (h *WithdrawalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.withdrawalUC.RequestWithdrawal(r.Context(), req.UserID, req.Amount)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to request withdrawal", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Approve marks a pending withdrawal as paid out.
func (h *WithdrawalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing withdrawal ID", "")
		return
	}

	var req dto.ApproveWithdrawalRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	if err := h.withdrawalUC.ApproveWithdrawal(r.Context(), id, req.TxHash); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to approve withdrawal", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reject rejects a pending withdrawal, releasing its hold on the balance.
func (h *WithdrawalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing withdrawal ID", "")
		return
	}

	if err := h.withdrawalUC.RejectWithdrawal(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reject withdrawal", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
