package middleware

import (
	"net/http"
	"strings"

	"nepa-bknd/internal/auth"

	"go.uber.org/zap"
)

// AdminAuth guards the operator/simulation surface with a bearer JWT.
type AdminAuth struct {
	jwtMgr *auth.JWTManager
	logr   *zap.Logger
}

func NewAdminAuth(jwtMgr *auth.JWTManager, logr *zap.Logger) *AdminAuth {
	return &AdminAuth{jwtMgr: jwtMgr, logr: logr}
}

// RequireAdmin validates the bearer token and its admin role.
func (m *AdminAuth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			http.Error(w, "invalid token format", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtMgr.VerifyToken(tokenString)
		if err != nil {
			m.logr.Warn("admin token rejected", zap.Error(err))
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		if role, _ := claims["role"].(string); role != "admin" {
			http.Error(w, "insufficient privileges", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
