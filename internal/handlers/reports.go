package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"nepa-bknd/internal/models"
	"nepa-bknd/internal/services"
)

// ReportHandler ingests device charging reports.
type ReportHandler struct {
	service *services.ReportService
	logr    *zap.Logger
}

func NewReportHandler(svc *services.ReportService, logr *zap.Logger) *ReportHandler {
	return &ReportHandler{service: svc, logr: logr}
}

// RecordReport handles POST /reports
func (h *ReportHandler) RecordReport(w http.ResponseWriter, r *http.Request) {
	var req models.RecordReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.DeviceHash) == "" {
		writeError(w, http.StatusBadRequest, "device_hash is required")
		return
	}

	err := h.service.RecordReport(r.Context(), req.ZoneID, req.DeviceHash, req.IsCharging, time.Now().UTC())
	if errors.Is(err, services.ErrUnknownZone) {
		// Bad references are dropped, never fatal to the ingest pipeline.
		h.logr.Warn("report for unknown zone dropped", zap.String("zone_id", req.ZoneID.String()))
		writeError(w, http.StatusNotFound, "Unknown zone")
		return
	}
	if err != nil {
		h.logr.Error("failed to record report", zap.Error(err), zap.String("zone_id", req.ZoneID.String()))
		writeError(w, http.StatusInternalServerError, "Failed to record report")
		return
	}

	writeJSON(w, http.StatusAccepted, APIResponse{Success: true, Message: "Report recorded"})
}
