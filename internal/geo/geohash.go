package geo

import "strings"

const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// GeohashLength is the precision used for zone geohash prefixes.
const GeohashLength = 6

// Geohash encodes a coordinate into a base32 geohash prefix by iterative
// lat/lng bisection. Midpoint hits fall into the lower half (strict >), which
// matches the zone import pipeline; changing this would shift dedupe keys for
// existing zones.
func Geohash(lat, lng float64) string {
	var (
		sb             strings.Builder
		minLat, maxLat = -90.0, 90.0
		minLng, maxLng = -180.0, 180.0
		evenBit        = true
		bit, ch        int
	)

	for sb.Len() < GeohashLength {
		if evenBit {
			mid := (minLng + maxLng) / 2
			if lng > mid {
				ch |= 1 << (4 - bit)
				minLng = mid
			} else {
				maxLng = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if lat > mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}
		evenBit = !evenBit

		if bit < 4 {
			bit++
		} else {
			sb.WriteByte(base32[ch])
			bit = 0
			ch = 0
		}
	}

	return sb.String()
}
