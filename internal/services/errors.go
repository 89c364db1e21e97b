package services

import "errors"

var (
	// ErrDuplicateZone is returned when a registration slug collides with an
	// existing zone.
	ErrDuplicateZone = errors.New("zone already exists")

	// ErrOutOfBounds is returned when a registration point falls outside the
	// configured region.
	ErrOutOfBounds = errors.New("coordinates outside the configured region")

	// ErrInvalidZoneName is returned when a display name sanitizes to an
	// empty slug.
	ErrInvalidZoneName = errors.New("zone name has no usable characters")

	// ErrUnknownZone is returned when a report references a zone id that does
	// not exist. Callers log and drop; ingestion never aborts for one bad
	// reference.
	ErrUnknownZone = errors.New("unknown zone")
)
