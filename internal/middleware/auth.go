package middleware

import (
	"net/http"
	"strings"

	"ronins-bknd/internal/auth"

	"go.uber.org/zap"
)

// AdminAuth guards the admin-only endpoints with a bearer token.
type AdminAuth struct {
	jwtMgr *auth.JWTManager
	logr   *zap.Logger
}

func NewAdminAuth(jwtMgr *auth.JWTManager, logr *zap.Logger) *AdminAuth {
	return &AdminAuth{jwtMgr: jwtMgr, logr: logr}
}

// RequireAdmin validates the token. The token carries no identity beyond
// the admin flag, so nothing is attached to the request context.
func (m *AdminAuth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "no token provided", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			http.Error(w, "invalid token format", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtMgr.VerifyToken(tokenString)
		if err != nil {
			m.logr.Warn("token parse error", zap.Error(err))
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		if isAdmin, _ := claims["admin"].(bool); !isAdmin {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
