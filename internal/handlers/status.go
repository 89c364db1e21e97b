package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nepa-bknd/internal/services"
)

// StatusHandler serves zone power status queries.
type StatusHandler struct {
	service *services.StatusService
	logr    *zap.Logger
}

func NewStatusHandler(svc *services.StatusService, logr *zap.Logger) *StatusHandler {
	return &StatusHandler{service: svc, logr: logr}
}

// GetAllZoneStatuses handles GET /status
func (h *StatusHandler) GetAllZoneStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.GetAllZoneStatuses(r.Context())
	if err != nil {
		h.logr.Error("failed to fetch zone statuses", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve statuses")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"statuses": statuses,
		"count":    len(statuses),
	})
}

// GetZoneStatus handles GET /status/{zoneID}
func (h *StatusHandler) GetZoneStatus(w http.ResponseWriter, r *http.Request) {
	zoneID, err := uuid.Parse(chi.URLParam(r, "zoneID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid zone id")
		return
	}

	status, err := h.service.GetZoneStatus(r.Context(), zoneID)
	if errors.Is(err, services.ErrUnknownZone) {
		writeError(w, http.StatusNotFound, "Zone not found")
		return
	}
	if err != nil {
		h.logr.Error("failed to fetch zone status", zap.Error(err), zap.String("zone_id", zoneID.String()))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve status")
		return
	}

	writeJSON(w, http.StatusOK, status)
}
