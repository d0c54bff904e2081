package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/adapter/http/dto"
)

// SettingsService defines the behavior needed by SettingsHandler.
type SettingsService interface {
	ReferralPercentage(ctx context.Context) (decimal.Decimal, error)
	SetReferralPercentage(ctx context.Context, percent decimal.Decimal) error
}

// SettingsHandler handles platform settings HTTP requests.
type SettingsHandler struct {
	settingsUC SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsUC SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsUC: settingsUC}
}

// GetReferralPercentage returns the current referral bonus percentage.
func (h *SettingsHandler) GetReferralPercentage(w http.ResponseWriter, r *http.Request) {
	percent, err := h.settingsUC.ReferralPercentage(r.Context())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get referral percentage", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ReferralPercentageResponse{Percent: percent})
}

// UpdateReferralPercentage sets the referral bonus percentage. The new rate
// applies to future payouts only.
func (h *SettingsHandler) UpdateReferralPercentage(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateReferralPercentageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.settingsUC.SetReferralPercentage(r.Context(), req.Percent); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to set referral percentage", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ReferralPercentageResponse{Percent: req.Percent})
}
