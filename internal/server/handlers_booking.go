package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/otomasikan/home72/internal/logger"
	"github.com/otomasikan/home72/internal/models"
	"github.com/otomasikan/home72/internal/repository"
	"github.com/otomasikan/home72/internal/storage"
)

type bookingRequest struct {
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	RoomID      string          `json:"room_id"`
	BookingDate string          `json:"booking_date"`
	DPAmount    decimal.Decimal `json:"dp_amount"`
	ProofURL    *string         `json:"proof_url"`
	IDCardURL   *string         `json:"id_card_url"`
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookingRepo.List(r.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list bookings")
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	if bookings == nil {
		bookings = []repository.BookingWithRoom{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Phone == "" || req.RoomID == "" || req.BookingDate == "" {
		writeError(w, http.StatusBadRequest, "name, phone, room_id and booking_date are required")
		return
	}
	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "booking_date must be YYYY-MM-DD")
		return
	}

	room, err := s.roomRepo.GetByID(r.Context(), req.RoomID)
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if room.Status != models.RoomStatusAvailable {
		writeError(w, http.StatusConflict, "room is not available")
		return
	}

	booking := &models.Booking{
		Name:        req.Name,
		Phone:       req.Phone,
		RoomID:      req.RoomID,
		BookingDate: bookingDate,
		DPAmount:    req.DPAmount,
		ProofURL:    req.ProofURL,
		IDCardURL:   req.IDCardURL,
	}
	if err := s.bookingRepo.Create(r.Context(), booking); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to create booking")
		writeError(w, http.StatusInternalServerError, "failed to create booking")
		return
	}

	s.notifyAdmin(r, fmt.Sprintf(
		"🏠 Booking baru\n\nNama: %s\nKamar: %s\nTanggal masuk: %s\nDP: %s",
		booking.Name, room.RoomNumber, bookingDate.Format("2 Jan 2006"),
		models.FormatRupiah(booking.DPAmount)))

	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Action string `json:"action"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case "confirm":
		tenant, booking, err := s.bookingRepo.Confirm(r.Context(), s.pool, id)
		if err != nil {
			if strings.Contains(err.Error(), "not pending") {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			logger.Log.Error().Err(err).Str("booking_id", id).Msg("Failed to confirm booking")
			writeError(w, http.StatusInternalServerError, "failed to confirm booking")
			return
		}

		s.notifyAdmin(r, fmt.Sprintf(
			"✅ Booking dikonfirmasi\n\nPenghuni baru: %s\nKamar: %s\nJatuh tempo pertama: %s",
			tenant.Name, booking.RoomNumber, tenant.DueDate.Format("2 Jan 2006")))

		writeJSON(w, http.StatusOK, map[string]any{
			"booking": booking,
			"tenant":  tenant,
		})

	case "cancel":
		if _, err := s.bookingRepo.GetWithRoom(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		if err := s.bookingRepo.Cancel(r.Context(), id); err != nil {
			logger.Log.Error().Err(err).Str("booking_id", id).Msg("Failed to cancel booking")
			writeError(w, http.StatusInternalServerError, "failed to cancel booking")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": models.BookingStatusCanceled})

	default:
		writeError(w, http.StatusBadRequest, "action must be confirm or cancel")
	}
}

// handleBookingUpload accepts a deposit proof or id card image for a booking
// form and returns the stored URL.
func (s *Server) handleBookingUpload(w http.ResponseWriter, r *http.Request) {
	url, err := s.uploadFormFile(w, r, storage.BucketPaymentProofs)
	if err != nil {
		writeError(w, err.status, err.message)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
