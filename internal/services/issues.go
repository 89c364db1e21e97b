package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"go.uber.org/zap"

	"nepa-bknd/internal/models"
)

// IssueService persists explicit feedback and free-text power-issue reports.
// Both are collaborator tables: their text and tags never enter the status
// decision. The boolean power signal they carry is forwarded to the report
// aggregator, which is exactly what the mobile client did.
type IssueService struct {
	db      *bun.DB
	reports *ReportService
	logr    *zap.Logger
}

func NewIssueService(db *bun.DB, reports *ReportService, logr *zap.Logger) *IssueService {
	return &IssueService{db: db, reports: reports, logr: logr}
}

// SubmitFeedback stores a one-tap feedback signal. light_on/light_off also
// count toward the zone tally via the aggregator.
func (s *IssueService) SubmitFeedback(ctx context.Context, req models.CreateFeedbackRequest) error {
	feedback := &models.UserFeedback{
		ID:           uuid.New(),
		ZoneID:       req.ZoneID,
		DeviceHash:   req.DeviceHash,
		FeedbackType: req.FeedbackType,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.db.NewInsert().Model(feedback).Exec(ctx); err != nil {
		return err
	}

	if req.FeedbackType == models.FeedbackLightOn || req.FeedbackType == models.FeedbackLightOff {
		isCharging := req.FeedbackType == models.FeedbackLightOn
		if err := s.reports.RecordReport(ctx, req.ZoneID, req.DeviceHash, isCharging, time.Time{}); err != nil {
			// Feedback row is already stored; the tally signal is best-effort.
			if errors.Is(err, ErrUnknownZone) {
				return err
			}
			s.logr.Warn("feedback tally signal failed",
				zap.Error(err),
				zap.String("zone_id", req.ZoneID.String()))
		}
	}

	return nil
}

// SubmitIssue stores a power-issue report and, when a zone is attached,
// forwards the power_available flag as a device report.
func (s *IssueService) SubmitIssue(ctx context.Context, req models.CreateIssueRequest) (*models.PowerIssueReport, error) {
	now := time.Now().UTC()

	var notes *string
	if req.AdditionalNotes != nil {
		trimmed := strings.TrimSpace(*req.AdditionalNotes)
		if trimmed != "" {
			notes = &trimmed
		}
	}

	issue := &models.PowerIssueReport{
		ID:                  uuid.New(),
		ZoneID:              req.ZoneID,
		LocationDescription: strings.TrimSpace(req.LocationDescription),
		ProblemTypes:        req.ProblemTypes,
		PowerAvailable:      req.PowerAvailable,
		DeviceHash:          req.DeviceHash,
		AdditionalNotes:     notes,
		Status:              "pending",
		ReportedAt:          now,
		CreatedAt:           now,
	}

	if _, err := s.db.NewInsert().Model(issue).Exec(ctx); err != nil {
		return nil, err
	}

	if req.ZoneID != nil && req.DeviceHash != nil {
		if err := s.reports.RecordReport(ctx, *req.ZoneID, *req.DeviceHash, req.PowerAvailable, now); err != nil {
			s.logr.Warn("issue tally signal dropped",
				zap.Error(err),
				zap.String("zone_id", req.ZoneID.String()))
		}
	}

	return issue, nil
}

// ListIssues returns power-issue reports newest-first for the export panel.
// A non-empty problemTypes narrows to reports tagged with at least one of
// the given types.
func (s *IssueService) ListIssues(ctx context.Context, zoneID *uuid.UUID, problemTypes []string, limit, offset int) ([]models.PowerIssueReport, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var issues []models.PowerIssueReport
	q := s.db.NewSelect().
		Model(&issues).
		Order("reported_at DESC").
		Limit(limit).
		Offset(offset)

	if zoneID != nil {
		q = q.Where("zone_id = ?", *zoneID)
	}
	if len(problemTypes) > 0 {
		q = q.Where("problem_types && ?", pgdialect.Array(problemTypes))
	}

	err := q.Scan(ctx)
	return issues, err
}

// ValidProblemTypes reports whether every tag is a known problem type.
func ValidProblemTypes(types []string) bool {
	for _, t := range types {
		switch t {
		case models.ProblemNoPower, models.ProblemLowVoltage,
			models.ProblemFrequentTripping, models.ProblemMeterIssues:
		default:
			return false
		}
	}
	return true
}

// ValidFeedbackType reports whether t is one of the accepted feedback kinds.
func ValidFeedbackType(t string) bool {
	switch t {
	case models.FeedbackLightOn, models.FeedbackLightOff,
		models.FeedbackGenMode, models.FeedbackInverter:
		return true
	}
	return false
}
