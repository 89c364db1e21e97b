package geo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeohashLagos(t *testing.T) {
	// Lagos Island reference point.
	assert.Equal(t, "s149hr", Geohash(6.5244, 3.3792))
}

func TestGeohashShape(t *testing.T) {
	hash := Geohash(6.45, 3.39)

	assert.Len(t, hash, GeohashLength)
	for _, c := range hash {
		assert.Contains(t, base32, string(c))
	}
}

func TestGeohashNearbyPointsSharePrefix(t *testing.T) {
	a := Geohash(6.5244, 3.3792)
	b := Geohash(6.5246, 3.3794)

	assert.True(t, strings.HasPrefix(b, a[:4]),
		"points ~30m apart should share a coarse prefix: %s vs %s", a, b)
}

func TestGeohashDistinctAreas(t *testing.T) {
	ikeja := Geohash(6.6018, 3.3515)
	lekki := Geohash(6.4478, 3.4723)

	assert.NotEqual(t, ikeja, lekki)
}
