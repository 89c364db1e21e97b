package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"nepa-bknd/internal/geo"
	"nepa-bknd/internal/models"
	"nepa-bknd/internal/power"
	"nepa-bknd/internal/utils"
)

// Lagos bounding box for the Overpass query: south,west,north,east.
const lagosBBox = "6.3,3.0,6.8,4.0"

// OSMImporter seeds the zone registry from OpenStreetMap neighbourhood data.
type OSMImporter struct {
	db          *bun.DB
	overpassURL string
	client      *http.Client
	logr        *zap.Logger
}

func NewOSMImporter(db *bun.DB, overpassURL string, logr *zap.Logger) *OSMImporter {
	return &OSMImporter{
		db:          db,
		overpassURL: overpassURL,
		client:      &http.Client{Timeout: 90 * time.Second},
		logr:        logr,
	}
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Found    int `json:"found"`
	Imported int `json:"imported"`
}

type osmElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *osmCenter        `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type osmCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type osmResponse struct {
	Elements []osmElement `json:"elements"`
}

// Import fetches Lagos neighbourhoods/suburbs/quarters from Overpass and
// inserts the ones not already registered. Near-duplicates are suppressed by
// slug and by 5-character geohash prefix (same prefix means within a few
// hundred meters of an existing zone).
func (s *OSMImporter) Import(ctx context.Context) (*ImportResult, error) {
	elements, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.logr.Info("overpass query finished", zap.Int("elements", len(elements)))

	var existing []models.Zone
	err = s.db.NewSelect().
		Model(&existing).
		Column("name", "geohash_prefix").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	existingNames := make(map[string]struct{}, len(existing))
	existingHashes := make(map[string]struct{}, len(existing))
	for _, z := range existing {
		existingNames[z.Name] = struct{}{}
		if len(z.GeohashPrefix) >= 5 {
			existingHashes[z.GeohashPrefix[:5]] = struct{}{}
		}
	}

	now := time.Now().UTC()
	var newZones []models.Zone

	for _, el := range elements {
		lat, lng := el.Lat, el.Lon
		if el.Center != nil {
			lat, lng = el.Center.Lat, el.Center.Lon
		}
		name := el.Tags["name"]
		if lat == 0 || lng == 0 || name == "" {
			continue
		}

		slug := utils.SanitizeZoneName(name)
		if slug == "" {
			continue
		}
		hash := geo.Geohash(lat, lng)
		shortHash := hash[:5]

		if _, ok := existingNames[slug]; ok {
			continue
		}
		if _, ok := existingHashes[shortHash]; ok {
			continue
		}

		newZones = append(newZones, models.Zone{
			ID:            uuid.New(),
			Name:          slug,
			DisplayName:   name,
			Latitude:      lat,
			Longitude:     lng,
			GeohashPrefix: hash,
			Source:        "osm",
			CreatedAt:     now,
		})
		existingNames[slug] = struct{}{}
		existingHashes[shortHash] = struct{}{}
	}

	result := &ImportResult{Found: len(elements)}
	if len(newZones) == 0 {
		return result, nil
	}

	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&newZones).Exec(ctx); err != nil {
			return err
		}

		statuses := make([]models.ZonePowerStatus, 0, len(newZones))
		for _, z := range newZones {
			statuses = append(statuses, models.ZonePowerStatus{
				ID:           uuid.New(),
				ZoneID:       z.ID,
				Status:       power.StatusUnknown,
				Confidence:   power.ConfidenceLow,
				LastChangeAt: now,
				UpdatedAt:    now,
			})
		}
		_, err := tx.NewInsert().Model(&statuses).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	result.Imported = len(newZones)
	s.logr.Info("osm zones imported", zap.Int("imported", result.Imported))
	return result, nil
}

func (s *OSMImporter) fetch(ctx context.Context) ([]osmElement, error) {
	query := fmt.Sprintf(`
		[out:json][timeout:60];
		(
		  node["place"~"neighbourhood|suburb|quarter|village"](%[1]s);
		  way["place"~"neighbourhood|suburb|quarter"](%[1]s);
		  relation["place"~"neighbourhood|suburb"](%[1]s);
		  node["name"]["admin_level"="10"](%[1]s);
		);
		out center;
	`, lagosBBox)

	body := "data=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.overpassURL, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass responded %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, err
	}

	var parsed osmResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}
	return parsed.Elements, nil
}
