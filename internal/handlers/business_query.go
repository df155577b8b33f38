package handlers

import (
	"net/http"
	"strings"

	"ronins-bknd/internal/services"
	"ronins-bknd/internal/utils"

	"go.uber.org/zap"
)

// BusinessQueryHandler handles contact-form submissions. The /api/contact
// route reuses it: both write to the same table.
type BusinessQueryHandler struct {
	service *services.BusinessQueryService
	logr    *zap.Logger
}

func NewBusinessQueryHandler(svc *services.BusinessQueryService, logr *zap.Logger) *BusinessQueryHandler {
	return &BusinessQueryHandler{service: svc, logr: logr}
}

type createQueryReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Create handles POST /api/business-queries and POST /api/contact
func (h *BusinessQueryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQueryReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" || req.Email == "" ||
		req.Phone == "" || strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: name, email, phone, message")
		return
	}
	if !utils.ValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email format.")
		return
	}
	if !utils.ValidPhone(req.Phone) {
		writeError(w, http.StatusBadRequest, "Invalid phone number format.")
		return
	}

	query, err := h.service.CreateQuery(r.Context(), req.Name, req.Email, req.Phone, req.Message)
	if err != nil {
		h.logr.Error("failed to save business query", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error saving query.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Query submitted successfully.",
		"id":      query.ID,
	})
}

// List handles GET /api/business-queries
func (h *BusinessQueryHandler) List(w http.ResponseWriter, r *http.Request) {
	queries, err := h.service.ListQueries(r.Context())
	if err != nil {
		h.logr.Error("failed to fetch business queries", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error fetching business queries")
		return
	}
	writeJSON(w, http.StatusOK, queries)
}
