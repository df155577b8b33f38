package handlers

import (
	"errors"
	"net/http"

	"ronins-bknd/internal/services"

	"go.uber.org/zap"
)

// TeamHandler handles the landing page team strip.
type TeamHandler struct {
	service *services.TeamService
	logr    *zap.Logger
}

func NewTeamHandler(svc *services.TeamService, logr *zap.Logger) *TeamHandler {
	return &TeamHandler{service: svc, logr: logr}
}

// List handles GET /api/team-members
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context())
	if err != nil {
		h.logr.Error("failed to fetch team members", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error fetching team members")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// Update handles PUT /api/team-members/{id} (admin).
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req services.UpdateTeamMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdateMember(r.Context(), id, req); err != nil {
		if verr, ok := services.AsValidation(err); ok {
			writeError(w, http.StatusBadRequest, verr.Details[0])
			return
		}
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Team member not found")
			return
		}
		h.logr.Error("failed to update team member", zap.Error(err), zap.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "Error updating team member")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Team member updated successfully"})
}
