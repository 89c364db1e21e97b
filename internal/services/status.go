package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"nepa-bknd/internal/events"
	"nepa-bknd/internal/models"
	"nepa-bknd/internal/power"
)

// StatusService answers status queries and carries the administrative
// override. The override is a testing/simulation escape hatch and is kept
// apart from the decision path in ReportService.
type StatusService struct {
	db  *bun.DB
	bus *events.Bus
}

func NewStatusService(db *bun.DB, bus *events.Bus) *StatusService {
	return &StatusService{db: db, bus: bus}
}

// GetZoneStatus returns the derived status row for one zone.
func (s *StatusService) GetZoneStatus(ctx context.Context, zoneID uuid.UUID) (*models.ZonePowerStatus, error) {
	status := new(models.ZonePowerStatus)
	err := s.db.NewSelect().
		Model(status).
		Relation("Zone").
		Where("zps.zone_id = ?", zoneID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownZone
	}
	if err != nil {
		return nil, err
	}
	return status, nil
}

// GetAllZoneStatuses returns every zone's status with zone metadata joined.
func (s *StatusService) GetAllZoneStatuses(ctx context.Context) ([]models.ZonePowerStatus, error) {
	var statuses []models.ZonePowerStatus
	err := s.db.NewSelect().
		Model(&statuses).
		Relation("Zone").
		Order("zps.updated_at DESC").
		Scan(ctx)
	return statuses, err
}

// ForceStatus sets a zone's status directly, bypassing the decision function.
// The tally columns are left untouched so the next real report recomputation
// applies normal rules. Forced transitions publish a change event but never
// write outage history.
func (s *StatusService) ForceStatus(ctx context.Context, zoneID uuid.UUID, status power.Status, confidence power.Confidence) (*models.ZonePowerStatus, error) {
	now := time.Now().UTC()
	var change *events.StatusChange

	current := new(models.ZonePowerStatus)
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(current).
			Where("zone_id = ?", zoneID).
			For("UPDATE").
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnknownZone
		}
		if err != nil {
			return err
		}

		oldStatus := current.Status
		current.Status = status
		current.Confidence = confidence
		current.LastChangeAt = now
		current.UpdatedAt = now

		_, err = tx.NewUpdate().
			Model(current).
			Column("status", "confidence", "last_change_at", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}

		if oldStatus != status {
			change = &events.StatusChange{
				ZoneID:     zoneID,
				OldStatus:  oldStatus,
				NewStatus:  status,
				BuddyCount: current.BuddyCount,
				Confidence: confidence,
				Timestamp:  now,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if change != nil {
		s.bus.Publish(*change)
	}
	return current, nil
}
