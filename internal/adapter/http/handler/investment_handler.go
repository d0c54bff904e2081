package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pdrm55/vesthub/internal/adapter/http/dto"
	"github.com/pdrm55/vesthub/internal/domain"
	"github.com/pdrm55/vesthub/internal/usecase"
)

// InvestmentService defines the behavior needed by InvestmentHandler.
type InvestmentService interface {
	CreateInvestment(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Investment, error)
	GetInvestment(ctx context.Context, id string) (*domain.Investment, error)
	ListInvestments(ctx context.Context, input usecase.ListInvestmentsInput) ([]*domain.Investment, error)
	ActivateInvestment(ctx context.Context, id, paymentTxID string) error
	RejectInvestment(ctx context.Context, id string) error
	CompleteInvestment(ctx context.Context, id string) error
}

// InvestmentHandler handles investment-related HTTP requests.
type InvestmentHandler struct {
	investmentUC InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentUC InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investmentUC: investmentUC}
}

// Create creates a new investment in pending_payment status.
func (h *InvestmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	investment, err := h.investmentUC.CreateInvestment(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create investment", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.InvestmentFromDomain(investment))
}

// Get retrieves an investment by ID.
func (h *InvestmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing investment ID", "")
		return
	}

	investment, err := h.investmentUC.GetInvestment(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get investment", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.InvestmentFromDomain(investment))
}

// List lists a user's investments.
func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	investments, err := h.investmentUC.ListInvestments(r.Context(), usecase.ListInvestmentsInput{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list investments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InvestmentsFromDomain(investments))
}

// Activate records the deposit for a pending investment and starts accrual.
func (h *InvestmentHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing investment ID", "")
		return
	}

	var req dto.ActivateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.investmentUC.ActivateInvestment(r.Context(), id, req.PaymentTxID); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to activate investment", err.Error())

		return
	}

	investment, err := h.investmentUC.GetInvestment(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get investment", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.InvestmentFromDomain(investment))
}

// Reject rejects a pending investment.
func (h *InvestmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.investmentUC.RejectInvestment)
}

// Complete finishes an active investment so it stops accruing.
func (h *InvestmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.investmentUC.CompleteInvestment)
}

func (h *InvestmentHandler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, string) error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing investment ID", "")
		return
	}

	if err := op(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update investment", err.Error())

		return
	}

	investment, err := h.investmentUC.GetInvestment(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get investment", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.InvestmentFromDomain(investment))
}
