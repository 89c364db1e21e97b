package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"nepa-bknd/internal/models"
	"nepa-bknd/internal/services"
)

// ZoneHandler handles HTTP requests for the zone registry.
type ZoneHandler struct {
	service *services.ZoneService
	logr    *zap.Logger
}

func NewZoneHandler(svc *services.ZoneService, logr *zap.Logger) *ZoneHandler {
	return &ZoneHandler{service: svc, logr: logr}
}

// ListZones handles GET /zones
func (h *ZoneHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.service.ListZones(r.Context())
	if err != nil {
		h.logr.Error("failed to list zones", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve zones")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"zones": zones,
		"count": len(zones),
	})
}

// NearestZone handles GET /zones/nearest?lat=&lng=
func (h *ZoneHandler) NearestZone(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(q.Get("lat")), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(q.Get("lng")), 64)
	if latErr != nil || lngErr != nil {
		writeError(w, http.StatusBadRequest, "lat and lng query parameters are required")
		return
	}

	zone, err := h.service.NearestZone(r.Context(), lat, lng)
	if err != nil {
		h.logr.Error("failed to resolve nearest zone", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to resolve nearest zone")
		return
	}
	if zone == nil {
		writeError(w, http.StatusNotFound, "No zones registered yet")
		return
	}

	writeJSON(w, http.StatusOK, zone)
}

// RegisterZone handles POST /zones
func (h *ZoneHandler) RegisterZone(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.DisplayName) == "" {
		writeError(w, http.StatusBadRequest, "display_name is required")
		return
	}

	zone, err := h.service.RegisterZone(r.Context(), req)
	switch {
	case errors.Is(err, services.ErrInvalidZoneName):
		writeError(w, http.StatusBadRequest, "Area name must contain letters or numbers")
		return
	case errors.Is(err, services.ErrOutOfBounds):
		writeError(w, http.StatusUnprocessableEntity, "Location must be within the Lagos area")
		return
	case errors.Is(err, services.ErrDuplicateZone):
		writeError(w, http.StatusConflict, "This area already exists")
		return
	case err != nil:
		h.logr.Error("failed to register zone", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to add area")
		return
	}

	h.logr.Info("zone registered",
		zap.String("zone_id", zone.ID.String()),
		zap.String("name", zone.Name))

	writeJSON(w, http.StatusCreated, zone)
}
