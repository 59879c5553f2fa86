package server

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/otomasikan/home72/internal/logger"
	"github.com/otomasikan/home72/internal/models"
	"github.com/otomasikan/home72/internal/qris"
)

// handleQRISCreate generates a dynamic QRIS code for the given amount and
// records a pending qris payment carrying the QR data URL and expiry.
func (s *Server) handleQRISCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TenantID string          `json:"tenant_id"`
		Month    string          `json:"month"`
		Amount   decimal.Decimal `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TenantID == "" || req.Month == "" {
		writeError(w, http.StatusBadRequest, "tenant_id and month are required")
		return
	}
	if _, err := time.Parse(models.MonthLayout, req.Month); err != nil {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	tenant, err := s.tenantRepo.GetWithRoom(r.Context(), req.TenantID)
	if err != nil {
		writeError(w, http.StatusNotFound, "tenant not found")
		return
	}

	amount := req.Amount
	if amount.IsZero() {
		amount = tenant.RoomPrice
	}
	if amount.IsNegative() {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	payment := &models.Payment{
		TenantID:      tenant.ID,
		Month:         req.Month,
		Amount:        amount,
		PaymentMethod: models.PaymentMethodQRIS,
	}
	if err := s.paymentRepo.Create(r.Context(), payment); err != nil {
		logger.Log.Error().Err(err).Str("tenant", logger.HashTenantID(tenant.ID)).Msg("Failed to create qris payment")
		writeError(w, http.StatusInternalServerError, "failed to record payment")
		return
	}

	code, err := qris.Generate(amount, payment.ID)
	if err != nil {
		logger.Log.Error().Err(err).Str("payment_id", payment.ID).Msg("Failed to generate qris code")
		writeError(w, http.StatusInternalServerError, "failed to generate qris code")
		return
	}

	payment.QRISURL = &code.ImageURL
	payment.QRISExpiredAt = &code.ExpiresAt
	if err := s.paymentRepo.SetQRIS(r.Context(), payment.ID, code.ImageURL, code.ExpiresAt); err != nil {
		logger.Log.Error().Err(err).Str("payment_id", payment.ID).Msg("Failed to store qris code")
		writeError(w, http.StatusInternalServerError, "failed to store qris code")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"payment":    payment,
		"payload":    code.Payload,
		"qr_url":     code.ImageURL,
		"expires_at": code.ExpiresAt,
	})
}

// handleQRISStatus polls a qris payment. Expired pending codes report
// expired so the portal can offer a fresh one.
func (s *Server) handleQRISStatus(w http.ResponseWriter, r *http.Request) {
	paymentID := r.URL.Query().Get("payment_id")
	if paymentID == "" {
		writeError(w, http.StatusBadRequest, "payment_id is required")
		return
	}

	payment, err := s.paymentRepo.GetByID(r.Context(), paymentID)
	if err != nil {
		writeError(w, http.StatusNotFound, "payment not found")
		return
	}

	status := payment.Status
	if status == models.PaymentStatusPending &&
		payment.QRISExpiredAt != nil && payment.QRISExpiredAt.Before(time.Now()) {
		status = "expired"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"payment": payment,
		"status":  status,
	})
}
