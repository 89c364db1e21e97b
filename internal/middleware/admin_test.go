package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nepa-bknd/internal/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAdminAcceptsValidToken(t *testing.T) {
	jwtMgr := auth.NewJWTManager("test-secret", "nepa-bknd", time.Minute)
	mw := NewAdminAuth(jwtMgr, zap.NewNop())

	token, _, err := jwtMgr.GenerateAdminToken()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/zones/x/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.RequireAdmin(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminRejectsMissingHeader(t *testing.T) {
	jwtMgr := auth.NewJWTManager("test-secret", "nepa-bknd", time.Minute)
	mw := NewAdminAuth(jwtMgr, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/admin/zones/x/status", nil)
	rec := httptest.NewRecorder()

	mw.RequireAdmin(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminRejectsForeignToken(t *testing.T) {
	issuer := auth.NewJWTManager("other-secret", "nepa-bknd", time.Minute)
	verifier := auth.NewJWTManager("test-secret", "nepa-bknd", time.Minute)
	mw := NewAdminAuth(verifier, zap.NewNop())

	token, _, err := issuer.GenerateAdminToken()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/zones/x/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.RequireAdmin(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminRejectsMalformedHeader(t *testing.T) {
	jwtMgr := auth.NewJWTManager("test-secret", "nepa-bknd", time.Minute)
	mw := NewAdminAuth(jwtMgr, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/admin/zones/x/status", nil)
	req.Header.Set("Authorization", "token-without-bearer-prefix")
	rec := httptest.NewRecorder()

	mw.RequireAdmin(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
