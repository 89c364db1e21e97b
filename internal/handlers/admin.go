package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"nepa-bknd/internal/auth"
	"nepa-bknd/internal/config"
	"nepa-bknd/internal/models"
	"nepa-bknd/internal/services"
)

// AdminHandler carries the operator/testing surface: login, the status
// simulation override and the OSM zone import. Everything here bypasses the
// production decision path on purpose and is JWT-gated.
type AdminHandler struct {
	status   *services.StatusService
	importer *services.OSMImporter
	jwtMgr   *auth.JWTManager
	cfg      *config.Config
	logr     *zap.Logger
}

func NewAdminHandler(status *services.StatusService, importer *services.OSMImporter, jwtMgr *auth.JWTManager, cfg *config.Config, logr *zap.Logger) *AdminHandler {
	return &AdminHandler{status: status, importer: importer, jwtMgr: jwtMgr, cfg: cfg, logr: logr}
}

type loginRequest struct {
	Passcode string `json:"passcode"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.cfg.AdminPasscodeHash == "" {
		h.logr.Warn("admin login attempted with no passcode configured")
		writeError(w, http.StatusForbidden, "Admin mode is not configured")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasscodeHash), []byte(req.Passcode)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid passcode")
		return
	}

	token, exp, err := h.jwtMgr.GenerateAdminToken()
	if err != nil {
		h.logr.Error("failed to issue admin token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	h.logr.Info("admin login")
	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: exp})
}

// ForceStatus handles POST /admin/zones/{zoneID}/status
func (h *AdminHandler) ForceStatus(w http.ResponseWriter, r *http.Request) {
	zoneID, err := uuid.Parse(chi.URLParam(r, "zoneID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid zone id")
		return
	}

	var req models.ForceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "status must be one of: on, off, recovering, unknown")
		return
	}
	if req.Confidence == "" {
		req.Confidence = "high"
	}
	if !req.Confidence.Valid() {
		writeError(w, http.StatusBadRequest, "confidence must be one of: low, medium, high")
		return
	}

	status, err := h.status.ForceStatus(r.Context(), zoneID, req.Status, req.Confidence)
	if errors.Is(err, services.ErrUnknownZone) {
		writeError(w, http.StatusNotFound, "Zone not found")
		return
	}
	if err != nil {
		h.logr.Error("failed to force status", zap.Error(err), zap.String("zone_id", zoneID.String()))
		writeError(w, http.StatusInternalServerError, "Failed to simulate status change")
		return
	}

	h.logr.Info("status override applied",
		zap.String("zone_id", zoneID.String()),
		zap.String("status", string(req.Status)))

	writeJSON(w, http.StatusOK, status)
}

// ImportOSMZones handles POST /admin/zones/import-osm
func (h *AdminHandler) ImportOSMZones(w http.ResponseWriter, r *http.Request) {
	result, err := h.importer.Import(r.Context())
	if err != nil {
		h.logr.Error("osm import failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to import zones from OpenStreetMap")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"found":    result.Found,
		"imported": result.Imported,
	})
}
