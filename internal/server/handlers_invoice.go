package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/otomasikan/home72/internal/invoice"
	"github.com/otomasikan/home72/internal/logger"
)

// handleInvoicePDF renders a payment's invoice and streams it as a PDF
// attachment.
func (s *Server) handleInvoicePDF(w http.ResponseWriter, r *http.Request) {
	payment, err := s.paymentRepo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "payment not found")
		return
	}

	tenant, err := s.tenantRepo.GetWithRoom(r.Context(), payment.TenantID)
	if err != nil {
		writeError(w, http.StatusNotFound, "tenant not found")
		return
	}

	pdf, err := invoice.Render(invoice.Data{Payment: payment, Tenant: tenant})
	if err != nil {
		logger.Log.Error().Err(err).Str("payment_id", payment.ID).Msg("Failed to render invoice")
		writeError(w, http.StatusInternalServerError, "failed to render invoice")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, payment.Month))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to write invoice response")
	}
}
