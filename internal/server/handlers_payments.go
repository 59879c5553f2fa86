package server

import (
	"fmt"
	"net/http"

	"github.com/otomasikan/home72/internal/logger"
	"github.com/otomasikan/home72/internal/mailer"
	"github.com/otomasikan/home72/internal/models"
)

// handleVerifyPayment moves a payment to verified or rejected. Verification
// notifies the tenant over email and Telegram; those failures are logged,
// never surfaced to the admin.
func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	if req.Status != models.PaymentStatusVerified && req.Status != models.PaymentStatusRejected {
		writeError(w, http.StatusBadRequest, "status must be verified or rejected")
		return
	}

	if _, err := s.paymentRepo.GetByID(r.Context(), req.ID); err != nil {
		writeError(w, http.StatusNotFound, "payment not found")
		return
	}

	payment, err := s.paymentRepo.SetStatus(r.Context(), req.ID, req.Status)
	if err != nil {
		logger.Log.Error().Err(err).Str("payment_id", req.ID).Msg("Failed to update payment status")
		writeError(w, http.StatusInternalServerError, "failed to update payment")
		return
	}

	if payment.Status == models.PaymentStatusVerified {
		s.notifyPaymentVerified(r, payment)
	}

	writeJSON(w, http.StatusOK, payment)
}

func (s *Server) notifyPaymentVerified(r *http.Request, payment *models.Payment) {
	tenant, err := s.tenantRepo.GetWithRoom(r.Context(), payment.TenantID)
	if err != nil {
		logger.Log.Error().Err(err).
			Str("tenant", logger.HashTenantID(payment.TenantID)).
			Msg("Failed to load tenant for verification notice")
		return
	}

	if s.mail != nil && tenant.Email != nil {
		subject, html := mailer.VerifiedEmail(tenant.Name, tenant.RoomNumber, payment.Month, payment.Amount)
		if err := s.mail.Send(r.Context(), *tenant.Email, subject, html); err != nil {
			logger.Log.Error().Err(err).
				Str("tenant", logger.HashTenantID(tenant.ID)).
				Msg("Failed to send verification email")
		}
	}

	if s.bot != nil && tenant.TelegramChatID != nil {
		s.bot.NotifyChat(r.Context(), *tenant.TelegramChatID, fmt.Sprintf(
			"✅ Pembayaran Anda untuk bulan %s sebesar %s sudah diverifikasi. Terima kasih!",
			payment.Month, models.FormatRupiah(payment.Amount)))
	}
}
