package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"ronins-bknd/internal/auth"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminHandler issues and verifies the admin session tokens.
type AdminHandler struct {
	jwtMgr        *auth.JWTManager
	adminPassword string
	logr          *zap.Logger
}

func NewAdminHandler(jwtMgr *auth.JWTManager, adminPassword string, logr *zap.Logger) *AdminHandler {
	return &AdminHandler{jwtMgr: jwtMgr, adminPassword: adminPassword, logr: logr}
}

type loginReq struct {
	Password string `json:"password"`
}

// Login handles POST /api/admin/login. ADMIN_PASSWORD may hold either a
// bcrypt hash or the raw password; the raw form is the legacy deployment
// mode.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.passwordMatches(req.Password) {
		h.logr.Warn("admin login failed", zap.String("remote", r.RemoteAddr))
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, exp, err := h.jwtMgr.GenerateAdminToken()
	if err != nil {
		h.logr.Error("failed to sign admin token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.logr.Info("admin logged in", zap.Time("expires_at", exp))
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_at": exp.Format(time.RFC3339),
	})
}

func (h *AdminHandler) passwordMatches(submitted string) bool {
	if strings.HasPrefix(h.adminPassword, "$2a$") || strings.HasPrefix(h.adminPassword, "$2b$") {
		return bcrypt.CompareHashAndPassword([]byte(h.adminPassword), []byte(submitted)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(h.adminPassword), []byte(submitted)) == 1
}

// Verify handles GET /api/admin/verify. Runs behind the auth middleware,
// so reaching it means the token checked out.
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}
