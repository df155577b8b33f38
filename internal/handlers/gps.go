package handlers

import (
	"errors"
	"net/http"

	"ronins-bknd/internal/services"

	"go.uber.org/zap"
)

// GPSHandler exposes the live-tracking endpoints under /api/gps.
type GPSHandler struct {
	service *services.GPSService
	logr    *zap.Logger
}

func NewGPSHandler(svc *services.GPSService, logr *zap.Logger) *GPSHandler {
	return &GPSHandler{service: svc, logr: logr}
}

// DriverTreks handles GET /api/gps/driver-treks
func (h *GPSHandler) DriverTreks(w http.ResponseWriter, r *http.Request) {
	treks, err := h.service.DriverTreks(r.Context())
	if err != nil {
		h.logr.Error("failed to fetch driver treks", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch treks")
		return
	}
	writeJSON(w, http.StatusOK, treks)
}

// ActiveTreks handles GET /api/gps/active-treks
func (h *GPSHandler) ActiveTreks(w http.ResponseWriter, r *http.Request) {
	treks, err := h.service.ActiveTreks(r.Context())
	if err != nil {
		h.logr.Error("failed to fetch active treks", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch active treks")
		return
	}
	writeJSON(w, http.StatusOK, treks)
}

// SubmitLocation handles POST /api/gps/trek-location
func (h *GPSHandler) SubmitLocation(w http.ResponseWriter, r *http.Request) {
	var req services.SubmitLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TrekID == 0 || req.Latitude == 0 || req.Longitude == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	liveTrekID, err := h.service.SubmitLocation(r.Context(), req)
	if err != nil {
		h.logr.Error("failed to save trek location", zap.Error(err), zap.Int64("trek_id", req.TrekID))
		writeError(w, http.StatusInternalServerError, "Failed to save location")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"live_trek_id": liveTrekID,
	})
}

// LocationHistory handles GET /api/gps/trek-locations/{trekId}
func (h *GPSHandler) LocationHistory(w http.ResponseWriter, r *http.Request) {
	trekID, ok := pathID(w, r, "trekId")
	if !ok {
		return
	}

	locations, err := h.service.LocationHistory(r.Context(), trekID)
	if err != nil {
		h.logr.Error("failed to fetch trek locations", zap.Error(err), zap.Int64("trek_id", trekID))
		writeError(w, http.StatusInternalServerError, "Failed to fetch locations")
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

// TrekDetails handles GET /api/gps/trek-details/{trekId}
func (h *GPSHandler) TrekDetails(w http.ResponseWriter, r *http.Request) {
	trekID, ok := pathID(w, r, "trekId")
	if !ok {
		return
	}

	details, err := h.service.GetTrekDetails(r.Context(), trekID)
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Trek not found")
		return
	}
	if err != nil {
		h.logr.Error("failed to fetch trek details", zap.Error(err), zap.Int64("trek_id", trekID))
		writeError(w, http.StatusInternalServerError, "Failed to fetch trek details")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

type stopReq struct {
	StopMessage string `json:"stop_message"`
}

// Stop handles POST /api/gps/trek-location/{id}/stop
func (h *GPSHandler) Stop(w http.ResponseWriter, r *http.Request) {
	trekID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req stopReq
	_ = decodeJSON(r, &req) // body is optional

	if err := h.service.StopTracking(r.Context(), trekID, req.StopMessage); err != nil {
		h.logr.Error("failed to stop tracking", zap.Error(err), zap.Int64("trek_id", trekID))
		writeError(w, http.StatusInternalServerError, "Failed to stop GPS sharing")
		return
	}

	h.logr.Info("gps sharing stopped", zap.Int64("trek_id", trekID))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "GPS sharing stopped",
	})
}

type verifyDriverPasswordReq struct {
	Password string `json:"password"`
}

// VerifyDriverPassword handles POST /api/gps/verify-driver-password
func (h *GPSHandler) VerifyDriverPassword(w http.ResponseWriter, r *http.Request) {
	var req verifyDriverPasswordReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	valid, err := h.service.VerifyDriverPassword(r.Context(), req.Password)
	if errors.Is(err, services.ErrDriverPasswordNotSet) {
		writeError(w, http.StatusInternalServerError, "Driver password not configured")
		return
	}
	if err != nil {
		h.logr.Error("failed to verify driver password", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to verify password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

type verifyTrekPasswordReq struct {
	TrekID   int64  `json:"trek_id"`
	Password string `json:"password"`
}

// VerifyTrekPassword handles POST /api/gps/verify-trek-password
func (h *GPSHandler) VerifyTrekPassword(w http.ResponseWriter, r *http.Request) {
	var req verifyTrekPasswordReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	valid, active, err := h.service.VerifyTrekPassword(r.Context(), req.TrekID, req.Password)
	if err != nil {
		h.logr.Error("failed to verify trek password", zap.Error(err), zap.Int64("trek_id", req.TrekID))
		writeError(w, http.StatusInternalServerError, "Failed to verify password")
		return
	}
	if !active {
		writeJSON(w, http.StatusOK, map[string]any{"valid": false, "error": "Trek not active"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

// ActivateTrek handles POST /api/gps/activate-trek
func (h *GPSHandler) ActivateTrek(w http.ResponseWriter, r *http.Request) {
	var req services.ActivateTrekRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TrekID == 0 || req.GoogleMapsLink == "" || req.TrekPassword == "" || req.DriverName == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: trek_id, google_maps_link, trek_password, driver_name")
		return
	}

	if err := h.service.ActivateTrek(r.Context(), req); err != nil {
		h.logr.Error("failed to activate trek", zap.Error(err), zap.Int64("trek_id", req.TrekID))
		writeError(w, http.StatusInternalServerError, "Failed to activate trek")
		return
	}

	h.logr.Info("trek activated",
		zap.Int64("trek_id", req.TrekID),
		zap.String("driver", req.DriverName))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Trek activated successfully",
	})
}

// GetConfig handles GET /api/gps/config
func (h *GPSHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	config, err := h.service.Config(r.Context())
	if err != nil {
		h.logr.Error("failed to fetch gps config", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch config")
		return
	}
	writeJSON(w, http.StatusOK, config)
}

type updateConfigReq struct {
	DriverPassword string `json:"driver_password"`
}

// UpdateConfig handles PUT /api/gps/config
func (h *GPSHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req updateConfigReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.DriverPassword != "" {
		if err := h.service.UpdateDriverPassword(r.Context(), req.DriverPassword); err != nil {
			h.logr.Error("failed to update gps config", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to update config")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Configuration updated",
	})
}
