package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"ronins-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TrekHandler handles HTTP requests for treks.
type TrekHandler struct {
	service *services.TrekService
	logr    *zap.Logger
}

func NewTrekHandler(svc *services.TrekService, logr *zap.Logger) *TrekHandler {
	return &TrekHandler{service: svc, logr: logr}
}

// List handles GET /api/treks
func (h *TrekHandler) List(w http.ResponseWriter, r *http.Request) {
	treks, err := h.service.ListTreks(r.Context())
	if err != nil {
		h.logr.Error("failed to fetch treks", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error fetching treks")
		return
	}
	writeJSON(w, http.StatusOK, treks)
}

// Get handles GET /api/treks/{id}
func (h *TrekHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	trek, err := h.service.GetTrek(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Trek not found")
		return
	}
	if err != nil {
		h.logr.Error("failed to fetch trek", zap.Error(err), zap.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "Error fetching trek")
		return
	}
	writeJSON(w, http.StatusOK, trek)
}

// Create handles POST /api/treks
func (h *TrekHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateTrekRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	trek, err := h.service.CreateTrek(r.Context(), req)
	if verr, ok := services.AsValidation(err); ok {
		h.logr.Warn("trek validation failed", zap.Strings("details", verr.Details))
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Validation failed",
			"details": verr.Details,
		})
		return
	}
	if errors.Is(err, services.ErrDuplicateTrekName) {
		writeError(w, http.StatusConflict, "A trek with this name already exists")
		return
	}
	if err != nil {
		h.logr.Error("failed to create trek", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Unable to add trek. Please try again later.")
		return
	}

	h.logr.Info("trek created", zap.Int64("id", trek.ID), zap.String("name", trek.Name))
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Trek added successfully",
		"id":      trek.ID,
		"trek":    trek,
	})
}

type updatePriceReq struct {
	Price *float64 `json:"price"`
}

// UpdatePrice handles PATCH /api/treks/{id}/price
func (h *TrekHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updatePriceReq
	if err := decodeJSON(r, &req); err != nil || req.Price == nil {
		writeError(w, http.StatusBadRequest, "Missing price")
		return
	}

	if err := h.service.UpdatePrice(r.Context(), id, *req.Price); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Trek not found")
			return
		}
		h.logr.Error("failed to update price", zap.Error(err), zap.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "Error updating price")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Price updated"})
}

type updateImageReq struct {
	Image string `json:"image"`
}

// UpdateImage handles PATCH /api/treks/{id}/image
func (h *TrekHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateImageReq
	if err := decodeJSON(r, &req); err != nil || req.Image == "" {
		writeError(w, http.StatusBadRequest, "Missing image URL")
		return
	}

	if err := h.service.UpdateImage(r.Context(), id, req.Image); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Trek not found")
			return
		}
		h.logr.Error("failed to update image", zap.Error(err), zap.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "Error updating image")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Image updated"})
}

// Delete handles DELETE /api/treks/{id}. Bookings referencing the trek go
// with it, atomically.
func (h *TrekHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTrek(r.Context(), id); err != nil {
		h.logr.Error("failed to delete trek", zap.Error(err), zap.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "Error deleting trek")
		return
	}

	h.logr.Info("trek deleted", zap.Int64("id", id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Trek deleted"})
}

// pathID parses a numeric chi URL parameter, writing the 400 itself.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
