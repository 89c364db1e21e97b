package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"nepa-bknd/internal/config"
	"nepa-bknd/internal/models"
)

func zoneAt(name string, lat, lng float64) models.Zone {
	return models.Zone{Name: name, Latitude: lat, Longitude: lng}
}

func TestFindNearestZone(t *testing.T) {
	zones := []models.Zone{
		zoneAt("ikeja", 6.6018, 3.3515),
		zoneAt("lekki", 6.4478, 3.4723),
		zoneAt("surulere", 6.4926, 3.3614),
	}

	nearest := FindNearestZone(6.45, 3.47, zones)
	assert.NotNil(t, nearest)
	assert.Equal(t, "lekki", nearest.Name)

	nearest = FindNearestZone(6.60, 3.35, zones)
	assert.NotNil(t, nearest)
	assert.Equal(t, "ikeja", nearest.Name)
}

func TestFindNearestZoneEmptySet(t *testing.T) {
	assert.Nil(t, FindNearestZone(6.5, 3.4, nil))
	assert.Nil(t, FindNearestZone(6.5, 3.4, []models.Zone{}))
}

func TestFindNearestZoneTieBreaksToFirst(t *testing.T) {
	// Two centroids equidistant from the query point: input order wins.
	zones := []models.Zone{
		zoneAt("west", 6.5, 3.3),
		zoneAt("east", 6.5, 3.5),
	}

	nearest := FindNearestZone(6.5, 3.4, zones)
	assert.NotNil(t, nearest)
	assert.Equal(t, "west", nearest.Name)
}

func TestFindNearestZoneExactMatch(t *testing.T) {
	zones := []models.Zone{
		zoneAt("ikeja", 6.6018, 3.3515),
		zoneAt("lekki", 6.4478, 3.4723),
	}

	nearest := FindNearestZone(6.4478, 3.4723, zones)
	assert.NotNil(t, nearest)
	assert.Equal(t, "lekki", nearest.Name)
}

// Validation runs before any database access, so a nil handle is fine here.
func TestRegisterZoneValidation(t *testing.T) {
	region := config.Bounds{MinLat: 6.0, MaxLat: 7.0, MinLng: 2.5, MaxLng: 4.5}
	svc := NewZoneService(nil, region)

	_, err := svc.RegisterZone(context.Background(), models.RegisterZoneRequest{
		DisplayName: "Ikeja GRA",
		Latitude:    10.0,
		Longitude:   3.4,
	})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	// A name of pure symbols sanitizes to nothing. That is a naming problem,
	// not a location problem.
	_, err = svc.RegisterZone(context.Background(), models.RegisterZoneRequest{
		DisplayName: "!!! ???",
		Latitude:    6.5,
		Longitude:   3.4,
	})
	assert.ErrorIs(t, err, ErrInvalidZoneName)
	assert.NotErrorIs(t, err, ErrOutOfBounds)
}

func TestRegionBounds(t *testing.T) {
	region := config.Bounds{MinLat: 6.0, MaxLat: 7.0, MinLng: 2.5, MaxLng: 4.5}

	assert.True(t, region.Contains(6.5, 3.4))
	assert.True(t, region.Contains(6.0, 2.5))
	assert.True(t, region.Contains(7.0, 4.5))
	assert.False(t, region.Contains(10.0, 3.4))
	assert.False(t, region.Contains(6.5, 5.0))
	assert.False(t, region.Contains(5.9, 3.4))
}
