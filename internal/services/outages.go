package services

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/uptrace/bun"

	"nepa-bknd/internal/models"
)

// OutageService reads the append-only outage history for the history screen
// and the operator export panel.
type OutageService struct {
	db *bun.DB
}

func NewOutageService(db *bun.DB) *OutageService {
	return &OutageService{db: db}
}

// ListOutages returns outage events newest-first, optionally filtered by zone
// and time range.
func (s *OutageService) ListOutages(ctx context.Context, params models.OutageQueryParams) ([]models.OutageEvent, error) {
	limit := params.Limit
	if limit <= 0 || limit > 500 {
		limit = 20
	}

	var outages []models.OutageEvent
	q := s.db.NewSelect().
		Model(&outages).
		Relation("Zone").
		Order("oh.started_at DESC").
		Limit(limit)

	if params.ZoneID != nil {
		q = q.Where("oh.zone_id = ?", *params.ZoneID)
	}
	if params.From != nil {
		q = q.Where("oh.started_at >= ?", *params.From)
	}
	if params.To != nil {
		q = q.Where("oh.started_at <= ?", *params.To)
	}

	err := q.Scan(ctx)
	return outages, err
}

// WriteCSV streams outage events as CSV for the export panel.
func (s *OutageService) WriteCSV(w io.Writer, outages []models.OutageEvent) error {
	cw := csv.NewWriter(w)

	header := []string{"zone", "zone_id", "started_at", "ended_at", "duration_minutes", "buddy_count"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, o := range outages {
		zoneName := ""
		if o.Zone != nil {
			zoneName = o.Zone.DisplayName
		}
		endedAt := ""
		if o.EndedAt != nil {
			endedAt = o.EndedAt.Format("2006-01-02 15:04:05")
		}
		duration := ""
		if o.DurationMinutes != nil {
			duration = strconv.Itoa(*o.DurationMinutes)
		}

		row := []string{
			zoneName,
			o.ZoneID.String(),
			o.StartedAt.Format("2006-01-02 15:04:05"),
			endedAt,
			duration,
			strconv.Itoa(o.BuddyCount),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
