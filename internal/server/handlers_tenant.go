package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/otomasikan/home72/internal/logger"
	"github.com/otomasikan/home72/internal/models"
	"github.com/otomasikan/home72/internal/storage"
)

// handleTenantAuth resolves a room number to its active tenant. The web
// portal logs tenants in with nothing but their room number.
func (s *Server) handleTenantAuth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomNumber string `json:"room_number"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	roomNumber := strings.ToUpper(strings.TrimSpace(req.RoomNumber))
	if roomNumber == "" {
		writeError(w, http.StatusBadRequest, "room_number is required")
		return
	}

	room, err := s.roomRepo.GetByNumber(r.Context(), roomNumber)
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	tenant, err := s.tenantRepo.FindActiveByRoomNumber(r.Context(), room.RoomNumber)
	if err != nil {
		writeError(w, http.StatusNotFound, "room has no active tenant")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tenant": tenant,
		"room":   room,
	})
}

// handleListTenants returns all tenants for the admin dashboard.
func (s *Server) handleListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := s.tenantRepo.List(r.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list tenants")
		writeError(w, http.StatusInternalServerError, "failed to list tenants")
		return
	}
	if tenants == nil {
		tenants = []models.Tenant{}
	}
	writeJSON(w, http.StatusOK, tenants)
}

func (s *Server) handlePaymentHistory(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id is required")
		return
	}

	payments, err := s.paymentRepo.ListByTenant(r.Context(), tenantID, 0)
	if err != nil {
		logger.Log.Error().Err(err).Str("tenant", logger.HashTenantID(tenantID)).Msg("Failed to list payments")
		writeError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

// handlePaymentUpload receives a transfer proof from the web portal and
// records a pending payment.
func (s *Server) handlePaymentUpload(w http.ResponseWriter, r *http.Request) {
	url, uploadErr := s.uploadFormFile(w, r, storage.BucketPaymentProofs)
	if uploadErr != nil {
		writeError(w, uploadErr.status, uploadErr.message)
		return
	}

	tenantID := r.FormValue("tenant_id")
	month := r.FormValue("month")
	if tenantID == "" || month == "" {
		writeError(w, http.StatusBadRequest, "tenant_id and month are required")
		return
	}

	tenant, err := s.tenantRepo.GetWithRoom(r.Context(), tenantID)
	if err != nil {
		writeError(w, http.StatusNotFound, "tenant not found")
		return
	}

	amount := tenant.RoomPrice
	if raw := r.FormValue("amount"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || !parsed.IsPositive() {
			writeError(w, http.StatusBadRequest, "amount must be a positive number")
			return
		}
		amount = parsed
	}

	payment := &models.Payment{
		TenantID:      tenant.ID,
		Month:         month,
		Amount:        amount,
		PaymentMethod: models.PaymentMethodTransfer,
		ProofURL:      &url,
	}
	if err := s.paymentRepo.Create(r.Context(), payment); err != nil {
		logger.Log.Error().Err(err).Str("tenant", logger.HashTenantID(tenantID)).Msg("Failed to create payment")
		writeError(w, http.StatusInternalServerError, "failed to record payment")
		return
	}

	s.notifyAdmin(r, "💰 Bukti pembayaran baru dari portal\n\nPenghuni: "+tenant.Name+
		"\nKamar: "+tenant.RoomNumber+"\nBulan: "+month+
		"\nJumlah: "+models.FormatRupiah(payment.Amount))

	writeJSON(w, http.StatusCreated, payment)
}

func (s *Server) handleCreateComplaint(w http.ResponseWriter, r *http.Request) {
	// The photo is optional, so the multipart form is parsed directly and
	// the upload helper is only used when a file is present.
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	tenantID := r.FormValue("tenant_id")
	message := strings.TrimSpace(r.FormValue("message"))
	if tenantID == "" || message == "" {
		writeError(w, http.StatusBadRequest, "tenant_id and message are required")
		return
	}

	if _, err := s.tenantRepo.GetByID(r.Context(), tenantID); err != nil {
		writeError(w, http.StatusNotFound, "tenant not found")
		return
	}

	var photoURL *string
	if len(r.MultipartForm.File["file"]) > 0 {
		url, uploadErr := s.uploadFormFile(w, r, storage.BucketReportPhotos)
		if uploadErr != nil {
			writeError(w, uploadErr.status, uploadErr.message)
			return
		}
		photoURL = &url
	}

	report := &models.Report{
		TenantID: tenantID,
		Message:  message,
		PhotoURL: photoURL,
	}
	if err := s.reportRepo.Create(r.Context(), report); err != nil {
		logger.Log.Error().Err(err).Str("tenant", logger.HashTenantID(tenantID)).Msg("Failed to create report")
		writeError(w, http.StatusInternalServerError, "failed to record complaint")
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

// handleUpdateComplaint advances a report's status from the admin dashboard.
func (s *Server) handleUpdateComplaint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Status {
	case models.ReportStatusOpen, models.ReportStatusInProgress, models.ReportStatusDone:
	default:
		writeError(w, http.StatusBadRequest, "status must be open, in_progress or done")
		return
	}

	if _, err := s.reportRepo.GetByID(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "complaint not found")
		return
	}
	if err := s.reportRepo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		logger.Log.Error().Err(err).Str("report", id).Msg("Failed to update report status")
		writeError(w, http.StatusInternalServerError, "failed to update complaint")
		return
	}

	report, err := s.reportRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load complaint")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListComplaints(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id is required")
		return
	}

	reports, err := s.reportRepo.ListByTenant(r.Context(), tenantID)
	if err != nil {
		logger.Log.Error().Err(err).Str("tenant", logger.HashTenantID(tenantID)).Msg("Failed to list reports")
		writeError(w, http.StatusInternalServerError, "failed to list complaints")
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}
