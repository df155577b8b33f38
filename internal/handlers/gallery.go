package handlers

import (
	"errors"
	"net/http"

	"ronins-bknd/internal/gallery"

	"go.uber.org/zap"
)

// GalleryHandler serves the six-slot landing page gallery.
type GalleryHandler struct {
	store *gallery.Store
	logr  *zap.Logger
}

func NewGalleryHandler(store *gallery.Store, logr *zap.Logger) *GalleryHandler {
	return &GalleryHandler{store: store, logr: logr}
}

// Get handles GET /api/gallery. The response is the bare array.
func (h *GalleryHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Images())
}

type updateGalleryReq struct {
	Images []string `json:"images"`
}

// Update handles POST /api/gallery (admin). All six slots are replaced
// wholesale.
func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateGalleryReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Images == nil {
		writeError(w, http.StatusBadRequest, "Images must be an array")
		return
	}

	if err := h.store.Replace(req.Images); err != nil {
		if errors.Is(err, gallery.ErrInvalidGallery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logr.Error("failed to save gallery", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save gallery")
		return
	}

	h.logr.Info("gallery updated")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Gallery updated."})
}
