package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nepa-bknd/internal/models"
	"nepa-bknd/internal/services"
	"nepa-bknd/internal/utils"
)

// IssueHandler handles explicit feedback and power-issue reports.
type IssueHandler struct {
	service *services.IssueService
	logr    *zap.Logger
}

func NewIssueHandler(svc *services.IssueService, logr *zap.Logger) *IssueHandler {
	return &IssueHandler{service: svc, logr: logr}
}

// SubmitFeedback handles POST /feedback
func (h *IssueHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.DeviceHash) == "" {
		writeError(w, http.StatusBadRequest, "device_hash is required")
		return
	}
	if !services.ValidFeedbackType(req.FeedbackType) {
		writeError(w, http.StatusBadRequest, "feedback_type must be one of: light_on, light_off, gen_mode, inverter")
		return
	}

	err := h.service.SubmitFeedback(r.Context(), req)
	if errors.Is(err, services.ErrUnknownZone) {
		writeError(w, http.StatusNotFound, "Unknown zone")
		return
	}
	if err != nil {
		h.logr.Error("failed to submit feedback", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to submit feedback")
		return
	}

	h.logr.Info("feedback submitted",
		zap.String("zone_id", req.ZoneID.String()),
		zap.String("feedback_type", req.FeedbackType))

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Feedback submitted successfully"})
}

// SubmitIssue handles POST /issues
func (h *IssueHandler) SubmitIssue(w http.ResponseWriter, r *http.Request) {
	var req models.CreateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.LocationDescription) == "" {
		writeError(w, http.StatusBadRequest, "location_description is required")
		return
	}
	if len(req.ProblemTypes) == 0 {
		writeError(w, http.StatusBadRequest, "Select at least one problem type")
		return
	}
	if !services.ValidProblemTypes(req.ProblemTypes) {
		writeError(w, http.StatusBadRequest, "problem_types must be from: no_power, low_voltage, frequent_tripping, meter_issues")
		return
	}

	issue, err := h.service.SubmitIssue(r.Context(), req)
	if err != nil {
		h.logr.Error("failed to submit issue report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to submit report")
		return
	}

	writeJSON(w, http.StatusCreated, issue)
}

// ListIssues handles GET /admin/issues
func (h *IssueHandler) ListIssues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var zoneID *uuid.UUID
	if v := q.Get("zone_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid zone_id")
			return
		}
		zoneID = &id
	}

	problemTypes := utils.ParseQueryList(q, "problem_types")
	if !services.ValidProblemTypes(problemTypes) {
		writeError(w, http.StatusBadRequest, "problem_types must be from: no_power, low_voltage, frequent_tripping, meter_issues")
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	issues, err := h.service.ListIssues(r.Context(), zoneID, problemTypes, limit, offset)
	if err != nil {
		h.logr.Error("failed to list issue reports", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch reports")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reports": issues,
		"count":   len(issues),
	})
}
