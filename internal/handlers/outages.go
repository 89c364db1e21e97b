package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nepa-bknd/internal/models"
	"nepa-bknd/internal/services"
)

// OutageHandler serves the outage history screen and exports.
type OutageHandler struct {
	service *services.OutageService
	logr    *zap.Logger
}

func NewOutageHandler(svc *services.OutageService, logr *zap.Logger) *OutageHandler {
	return &OutageHandler{service: svc, logr: logr}
}

func parseOutageParams(r *http.Request) (models.OutageQueryParams, error) {
	q := r.URL.Query()
	params := models.OutageQueryParams{}

	if v := q.Get("zone_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return params, err
		}
		params.ZoneID = &id
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return params, err
		}
		params.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return params, err
		}
		params.To = &t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, err
		}
		params.Limit = n
	}

	return params, nil
}

// ListOutages handles GET /outages
func (h *OutageHandler) ListOutages(w http.ResponseWriter, r *http.Request) {
	params, err := parseOutageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	outages, err := h.service.ListOutages(r.Context(), params)
	if err != nil {
		h.logr.Error("failed to list outages", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve outage history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"outages": outages,
		"count":   len(outages),
	})
}

// ExportOutages handles GET /outages/export?format=csv|json
func (h *OutageHandler) ExportOutages(w http.ResponseWriter, r *http.Request) {
	params, err := parseOutageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if params.Limit == 0 {
		params.Limit = 500
	}

	outages, err := h.service.ListOutages(r.Context(), params)
	if err != nil {
		h.logr.Error("failed to export outages", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to export outage history")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" || format == "json" {
		writeJSON(w, http.StatusOK, map[string]any{
			"outages": outages,
			"count":   len(outages),
		})
		return
	}
	if format != "csv" {
		writeError(w, http.StatusBadRequest, "format must be csv or json")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="outage_history.csv"`)
	if err := h.service.WriteCSV(w, outages); err != nil {
		h.logr.Error("failed to write outage csv", zap.Error(err))
	}
}
