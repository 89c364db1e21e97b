package services

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"nepa-bknd/internal/events"
	"nepa-bknd/internal/models"
	"nepa-bknd/internal/power"
)

// errDuplicateSignal marks a consecutive identical report from the same
// device. It never leaves RecordReport.
var errDuplicateSignal = errors.New("duplicate consecutive signal")

// ReportService folds per-zone device signals into the live tally and drives
// the status state machine. All recomputation for a zone happens under a
// row lock on its zone_power_status row, so concurrent reports for the same
// zone serialize while different zones proceed in parallel.
type ReportService struct {
	db   *bun.DB
	bus  *events.Bus
	logr *zap.Logger
	th   power.Thresholds
}

func NewReportService(db *bun.DB, bus *events.Bus, th power.Thresholds, logr *zap.Logger) *ReportService {
	return &ReportService{db: db, bus: bus, th: th, logr: logr}
}

// RecordReport appends one device signal and recomputes the zone status.
// A repeat of the device's last reported state for the zone is a no-op; a
// changed state always records. Returns ErrUnknownZone for bad references.
func (s *ReportService) RecordReport(ctx context.Context, zoneID uuid.UUID, deviceHash string, isCharging bool, at time.Time) error {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	exists, err := s.db.NewSelect().
		Model((*models.Zone)(nil)).
		Where("id = ?", zoneID).
		Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownZone
	}

	var change *events.StatusChange

	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var last *models.DeviceReport
		found := new(models.DeviceReport)
		err := tx.NewSelect().
			Model(found).
			Where("zone_id = ?", zoneID).
			Where("device_hash = ?", deviceHash).
			Order("reported_at DESC").
			Limit(1).
			Scan(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err == nil {
			last = found
		}
		if !shouldRecord(last, isCharging) {
			return errDuplicateSignal
		}

		report := &models.DeviceReport{
			ID:         uuid.New(),
			ZoneID:     zoneID,
			DeviceHash: deviceHash,
			IsCharging: isCharging,
			ReportedAt: at,
		}
		if _, err := tx.NewInsert().Model(report).Exec(ctx); err != nil {
			return err
		}

		change, err = s.recompute(ctx, tx, zoneID, at)
		return err
	})
	if errors.Is(err, errDuplicateSignal) {
		return nil
	}
	if err != nil {
		return err
	}

	if change != nil {
		s.bus.Publish(*change)
	}
	return nil
}

// Recompute re-derives a zone's status from the current window outside the
// ingest path (used after administrative overrides or backfills).
func (s *ReportService) Recompute(ctx context.Context, zoneID uuid.UUID) error {
	var change *events.StatusChange

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		change, err = s.recompute(ctx, tx, zoneID, time.Now().UTC())
		return err
	})
	if err != nil {
		return err
	}

	if change != nil {
		s.bus.Publish(*change)
	}
	return nil
}

// recompute tallies the staleness window, runs the decision function and
// persists the result. It must run inside a transaction; the FOR UPDATE on
// the status row is what serializes per-zone updates.
func (s *ReportService) recompute(ctx context.Context, tx bun.Tx, zoneID uuid.UUID, now time.Time) (*events.StatusChange, error) {
	current := new(models.ZonePowerStatus)
	err := tx.NewSelect().
		Model(current).
		Where("zone_id = ?", zoneID).
		For("UPDATE").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownZone
	}
	if err != nil {
		return nil, err
	}

	tally, err := s.tally(ctx, tx, zoneID, now)
	if err != nil {
		return nil, err
	}

	status, confidence := s.th.Decide(tally, now)

	current.PluggedCount = tally.Plugged
	current.UnpluggedCount = tally.Unplugged
	current.BuddyCount = tally.Buddies
	current.Confidence = confidence
	current.UpdatedAt = now

	if status == current.Status {
		_, err := tx.NewUpdate().
			Model(current).
			Column("plugged_count", "unplugged_count", "buddy_count", "confidence", "updated_at").
			WherePK().
			Exec(ctx)
		return nil, err
	}

	oldStatus := current.Status
	current.Status = status
	current.LastChangeAt = now

	_, err = tx.NewUpdate().
		Model(current).
		Column("status", "plugged_count", "unplugged_count", "buddy_count", "confidence", "last_change_at", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if power.LeavesOutage(oldStatus, status) {
		if err := closeOpenOutages(ctx, tx, zoneID, now); err != nil {
			return nil, err
		}
	}
	if power.EntersOutage(oldStatus, status) {
		// An administrative override out of `off` leaves its outage row open;
		// settle any such leftovers before opening the new event so the zone
		// never carries two open rows.
		if err := closeOpenOutages(ctx, tx, zoneID, now); err != nil {
			return nil, err
		}
		outage := &models.OutageEvent{
			ID:         uuid.New(),
			ZoneID:     zoneID,
			StartedAt:  now,
			BuddyCount: tally.Buddies,
			CreatedAt:  now,
		}
		if _, err := tx.NewInsert().Model(outage).Exec(ctx); err != nil {
			return nil, err
		}
	}

	return &events.StatusChange{
		ZoneID:     zoneID,
		OldStatus:  oldStatus,
		NewStatus:  status,
		BuddyCount: tally.Buddies,
		Confidence: confidence,
		Timestamp:  now,
	}, nil
}

func (s *ReportService) tally(ctx context.Context, tx bun.Tx, zoneID uuid.UUID, now time.Time) (power.Tally, error) {
	cutoff := now.Add(-s.th.Staleness)

	var (
		plugged, unplugged, buddies int
		lastReport                  sql.NullTime
	)
	err := tx.NewSelect().
		Model((*models.DeviceReport)(nil)).
		ColumnExpr("count(*) FILTER (WHERE is_charging)").
		ColumnExpr("count(*) FILTER (WHERE NOT is_charging)").
		ColumnExpr("count(DISTINCT device_hash)").
		ColumnExpr("max(reported_at)").
		Where("zone_id = ?", zoneID).
		Where("reported_at > ?", cutoff).
		Scan(ctx, &plugged, &unplugged, &buddies, &lastReport)
	if err != nil {
		return power.Tally{}, err
	}

	t := power.Tally{Plugged: plugged, Unplugged: unplugged, Buddies: buddies}
	if lastReport.Valid {
		t.LastReportAt = lastReport.Time
	}
	return t, nil
}

// shouldRecord reports whether a signal changes the device's last known
// state for the zone. An identical consecutive signal is a no-op; a changed
// state, or a device with no prior report, always records.
func shouldRecord(last *models.DeviceReport, isCharging bool) bool {
	return last == nil || last.IsCharging != isCharging
}

// finalizeOutage stamps an outage event as ended, with its minute-rounded
// duration.
func finalizeOutage(o *models.OutageEvent, now time.Time) {
	duration := int(math.Round(now.Sub(o.StartedAt).Minutes()))
	o.EndedAt = &now
	o.DurationMinutes = &duration
}

// closeOpenOutages settles every open outage event for the zone. Normally
// there is at most one, but all open rows are swept so the invariant holds
// even after history-less administrative overrides.
func closeOpenOutages(ctx context.Context, tx bun.Tx, zoneID uuid.UUID, now time.Time) error {
	var open []models.OutageEvent
	err := tx.NewSelect().
		Model(&open).
		Where("zone_id = ?", zoneID).
		Where("ended_at IS NULL").
		Scan(ctx)
	if err != nil {
		return err
	}

	for i := range open {
		finalizeOutage(&open[i], now)
		_, err := tx.NewUpdate().
			Model(&open[i]).
			Column("ended_at", "duration_minutes").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}
