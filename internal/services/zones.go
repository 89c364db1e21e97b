package services

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"nepa-bknd/internal/config"
	"nepa-bknd/internal/geo"
	"nepa-bknd/internal/models"
	"nepa-bknd/internal/power"
	"nepa-bknd/internal/utils"
)

// ZoneService owns the zone registry: listing, nearest-zone resolution and
// registration with duplicate suppression.
type ZoneService struct {
	db     *bun.DB
	region config.Bounds
}

func NewZoneService(db *bun.DB, region config.Bounds) *ZoneService {
	return &ZoneService{db: db, region: region}
}

// FindNearestZone returns the zone whose centroid minimizes the Euclidean
// distance in raw degree-space, or nil for an empty set. Ties resolve to the
// earliest-indexed zone. Not geodesically accurate, but stable at city scale
// and load-bearing for existing zone assignments, so it stays as-is.
func FindNearestZone(lat, lng float64, zones []models.Zone) *models.Zone {
	var nearest *models.Zone
	minDistance := math.Inf(1)

	for i := range zones {
		z := &zones[i]
		distance := math.Sqrt(math.Pow(z.Latitude-lat, 2) + math.Pow(z.Longitude-lng, 2))
		if distance < minDistance {
			minDistance = distance
			nearest = z
		}
	}

	return nearest
}

// ListZones returns all zones ordered by display name.
func (s *ZoneService) ListZones(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone
	err := s.db.NewSelect().
		Model(&zones).
		Order("display_name ASC").
		Scan(ctx)
	return zones, err
}

// NearestZone resolves an arbitrary coordinate to the nearest managed zone.
func (s *ZoneService) NearestZone(ctx context.Context, lat, lng float64) (*models.Zone, error) {
	zones, err := s.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	return FindNearestZone(lat, lng, zones), nil
}

// RegisterZone validates and inserts a user-submitted zone together with its
// initial unknown/low status row.
func (s *ZoneService) RegisterZone(ctx context.Context, req models.RegisterZoneRequest) (*models.Zone, error) {
	if !s.region.Contains(req.Latitude, req.Longitude) {
		return nil, ErrOutOfBounds
	}

	slug := utils.SanitizeZoneName(req.DisplayName)
	if slug == "" {
		return nil, ErrInvalidZoneName
	}

	exists, err := s.db.NewSelect().
		Model((*models.Zone)(nil)).
		Where("name = ?", slug).
		Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateZone
	}

	now := time.Now().UTC()
	submittedBy := strings.TrimSpace(req.DeviceHash)
	if submittedBy == "" {
		submittedBy = "anonymous"
	}

	zone := &models.Zone{
		ID:            uuid.New(),
		Name:          slug,
		DisplayName:   strings.TrimSpace(req.DisplayName),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		GeohashPrefix: geo.Geohash(req.Latitude, req.Longitude),
		Source:        "user",
		SubmittedBy:   &submittedBy,
		SubmittedAt:   &now,
		CreatedAt:     now,
	}

	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(zone).Exec(ctx); err != nil {
			return err
		}

		status := &models.ZonePowerStatus{
			ID:           uuid.New(),
			ZoneID:       zone.ID,
			Status:       power.StatusUnknown,
			Confidence:   power.ConfidenceLow,
			LastChangeAt: now,
			UpdatedAt:    now,
		}
		_, err := tx.NewInsert().Model(status).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return zone, nil
}

// GetZone fetches a zone by id, mapping a missing row to ErrUnknownZone.
func (s *ZoneService) GetZone(ctx context.Context, id uuid.UUID) (*models.Zone, error) {
	zone := new(models.Zone)
	err := s.db.NewSelect().
		Model(zone).
		Where("z.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownZone
	}
	if err != nil {
		return nil, err
	}
	return zone, nil
}
