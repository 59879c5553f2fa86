package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/otomasikan/home72/internal/logger"
	"github.com/otomasikan/home72/internal/models"
)

type roomRequest struct {
	RoomNumber string          `json:"room_number"`
	Price      decimal.Decimal `json:"price"`
	Capacity   int             `json:"capacity"`
	Facilities []string        `json:"facilities"`
	Photos     []string        `json:"photos"`
	Status     string          `json:"status"`
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.roomRepo.List(r.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list rooms")
		writeError(w, http.StatusInternalServerError, "failed to list rooms")
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Room numbers are stored uppercase so tenant-facing lookups can be
	// case-insensitive.
	req.RoomNumber = strings.ToUpper(strings.TrimSpace(req.RoomNumber))
	if req.RoomNumber == "" {
		writeError(w, http.StatusBadRequest, "room_number is required")
		return
	}
	if req.Price.IsNegative() || req.Price.IsZero() {
		writeError(w, http.StatusBadRequest, "price must be positive")
		return
	}

	room := &models.Room{
		RoomNumber: req.RoomNumber,
		Price:      req.Price,
		Capacity:   req.Capacity,
		Facilities: req.Facilities,
		Photos:     req.Photos,
		Status:     req.Status,
	}
	if err := s.roomRepo.Create(r.Context(), room); err != nil {
		logger.Log.Error().Err(err).Str("room_number", req.RoomNumber).Msg("Failed to create room")
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.roomRepo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.roomRepo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	var req roomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if n := strings.ToUpper(strings.TrimSpace(req.RoomNumber)); n != "" {
		room.RoomNumber = n
	}
	if !req.Price.IsZero() {
		room.Price = req.Price
	}
	if req.Capacity > 0 {
		room.Capacity = req.Capacity
	}
	if req.Facilities != nil {
		room.Facilities = req.Facilities
	}
	if req.Photos != nil {
		room.Photos = req.Photos
	}
	if req.Status != "" {
		room.Status = req.Status
	}

	if err := s.roomRepo.Update(r.Context(), room); err != nil {
		logger.Log.Error().Err(err).Str("room_id", room.ID).Msg("Failed to update room")
		writeError(w, http.StatusInternalServerError, "failed to update room")
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.roomRepo.GetByID(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if err := s.roomRepo.Delete(r.Context(), id); err != nil {
		logger.Log.Error().Err(err).Str("room_id", id).Msg("Failed to delete room")
		writeError(w, http.StatusInternalServerError, "failed to delete room")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
