package handlers

import (
	"errors"
	"net/http"
	"strings"

	"ronins-bknd/internal/metrics"
	"ronins-bknd/internal/services"
	"ronins-bknd/internal/utils"

	"go.uber.org/zap"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	service *services.BookingService
	reg     *metrics.Registry
	logr    *zap.Logger
}

func NewBookingHandler(svc *services.BookingService, reg *metrics.Registry, logr *zap.Logger) *BookingHandler {
	return &BookingHandler{service: svc, reg: reg, logr: logr}
}

// List handles GET /api/bookings (admin).
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListBookings(r.Context())
	if err != nil {
		h.logr.Error("failed to fetch bookings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error fetching bookings")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// Create handles POST /api/bookings (public booking form).
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.TrekID == 0 || strings.TrimSpace(req.TrekName) == "" ||
		strings.TrimSpace(req.FullName) == "" || req.Contact == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: trek_id, trekName, fullName, contact, email")
		return
	}
	if !utils.ValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if !utils.ValidPhone(req.Contact) {
		writeError(w, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), req)
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Trek not found")
		return
	}
	if err != nil {
		h.logr.Error("failed to create booking", zap.Error(err), zap.Int64("trek_id", req.TrekID))
		writeError(w, http.StatusInternalServerError, "Error creating booking")
		return
	}

	if h.reg != nil {
		h.reg.BookingsTotal.Inc()
	}
	h.logr.Info("booking created",
		zap.Int64("id", booking.ID),
		zap.Int64("trek_id", booking.TrekID),
		zap.Int("group_size", booking.GroupSize))

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "Booking created successfully",
		"bookingId": booking.ID,
	})
}

// Delete handles DELETE /api/bookings/{id} (admin).
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteBooking(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Booking not found")
			return
		}
		h.logr.Error("failed to delete booking", zap.Error(err), zap.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "Error deleting booking")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking deleted"})
}
