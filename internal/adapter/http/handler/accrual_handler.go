package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pdrm55/vesthub/internal/adapter/http/dto"
	"github.com/pdrm55/vesthub/internal/domain"
)

// AccrualService defines the behavior needed by AccrualHandler.
type AccrualService interface {
	RunAccrual(ctx context.Context, asOf time.Time) (int, error)
	RunRecovery(ctx context.Context, asOf time.Time) (int, error)
}

// AccrualHandler triggers accrual and recovery runs over HTTP. The scheduler
// drives the same use case on a cron; this endpoint exists for operators.
type AccrualHandler struct {
	accrualUC AccrualService
}

// NewAccrualHandler creates a new AccrualHandler.
func NewAccrualHandler(accrualUC AccrualService) *AccrualHandler {
	return &AccrualHandler{accrualUC: accrualUC}
}

// RunAccrual pays daily profit for the given day (today when omitted).
func (h *AccrualHandler) RunAccrual(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.accrualUC.RunAccrual)
}

// RunRecovery backfills any missed accrual days up to the given day.
func (h *AccrualHandler) RunRecovery(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.accrualUC.RunRecovery)
}

func (h *AccrualHandler) run(w http.ResponseWriter, r *http.Request, op func(context.Context, time.Time) (int, error)) {
	asOf, err := parseAsOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of date", err.Error())
		return
	}

	payouts, err := op(r.Context(), asOf)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "run failed", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.RunResponse{
		AsOf:    domain.DateOf(asOf).Format("2006-01-02"),
		Payouts: payouts,
	})
}

func parseAsOf(r *http.Request) (time.Time, error) {
	var req dto.RunRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return time.Time{}, err
		}
	}

	if req.AsOf == "" {
		return time.Now().UTC(), nil
	}

	return time.ParseInLocation("2006-01-02", req.AsOf, time.UTC)
}
