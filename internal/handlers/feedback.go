package handlers

import (
	"net/http"
	"strings"

	"ronins-bknd/internal/services"

	"go.uber.org/zap"
)

// FeedbackHandler handles HTTP requests for visitor feedback.
type FeedbackHandler struct {
	service *services.FeedbackService
	logr    *zap.Logger
}

func NewFeedbackHandler(svc *services.FeedbackService, logr *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{service: svc, logr: logr}
}

type createFeedbackReq struct {
	Feedback string `json:"feedback"`
}

// Create handles POST /api/feedback
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFeedbackReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	text := strings.TrimSpace(req.Feedback)
	if text == "" {
		writeError(w, http.StatusBadRequest, "Feedback cannot be empty.")
		return
	}

	if err := h.service.CreateFeedback(r.Context(), text); err != nil {
		if verr, ok := services.AsValidation(err); ok {
			h.logr.Warn("feedback rejected", zap.Strings("details", verr.Details))
			writeError(w, http.StatusBadRequest, verr.Details[0])
			return
		}
		h.logr.Error("failed to save feedback", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error saving feedback.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Feedback submitted successfully."})
}

// List handles GET /api/feedback
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListFeedback(r.Context())
	if err != nil {
		h.logr.Error("failed to fetch feedback", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error fetching feedback.")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
