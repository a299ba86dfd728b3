package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"kovaidetail/internal/database"
	"kovaidetail/internal/models"
)

// createBookingRequest mirrors the order form: the client sends camelCase
// keys, while stored bookings serialize back out in snake_case.
type createBookingRequest struct {
	FullName      string   `json:"fullName"`
	PhoneNumber   string   `json:"phoneNumber"`
	Email         string   `json:"email"`
	VehicleType   string   `json:"vehicleType"`
	VehicleModel  string   `json:"vehicleModel"`
	ServiceType   string   `json:"serviceType"`
	Address       string   `json:"address"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	PreferredDate string   `json:"preferredDate"`
	PreferredTime string   `json:"preferredTime"`
	Notes         string   `json:"notes"`
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateBooking(w, r)
	case http.MethodGet:
		s.handleListBookings(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.PhoneNumber) == "" || strings.TrimSpace(req.ServiceType) == "" {
		writeError(w, http.StatusBadRequest, "Full name, phone number and service type are required")
		return
	}

	booking := &models.Booking{
		FullName:      req.FullName,
		PhoneNumber:   req.PhoneNumber,
		Email:         req.Email,
		VehicleType:   req.VehicleType,
		VehicleModel:  req.VehicleModel,
		ServiceType:   req.ServiceType,
		Address:       req.Address,
		Lat:           req.Lat,
		Lng:           req.Lng,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Notes:         req.Notes,
	}

	if err := s.bookings.CreateBooking(r.Context(), principal, booking); err != nil {
		s.logger.Error().Err(err).Int64("user_id", principal.UserID).Msg("create booking failed")
		writeError(w, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	writeSuccess(w)
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	bookings, err := s.bookings.ListBookings(r.Context(), principal)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", principal.UserID).Msg("list bookings failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	if bookings == nil {
		bookings = []*models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// handleBookingStatus serves PATCH /api/bookings/{id}/status. An id that
// matches no row still returns success; only a bad status value is rejected.
func (s *HTTPServer) handleBookingStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/bookings/")
	idStr, suffix, found := strings.Cut(rest, "/")
	if !found || suffix != "status" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if _, err := s.bookings.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, database.ErrInvalidStatus) {
			writeError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		s.logger.Error().Err(err).Int64("booking_id", id).Msg("update status failed")
		writeError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	writeSuccess(w)
}
