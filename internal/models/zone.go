package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Zone is a named geographic area tracked for power status. Zones are created
// by the OSM import or by user submission and are never deleted; orphaned
// zones must persist for outage-history integrity.
type Zone struct {
	bun.BaseModel `bun:"table:zones,alias:z"`

	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	DisplayName   string     `bun:"display_name,notnull" json:"display_name"`
	Latitude      float64    `bun:"latitude,notnull" json:"latitude"`
	Longitude     float64    `bun:"longitude,notnull" json:"longitude"`
	GeohashPrefix string     `bun:"geohash_prefix,notnull" json:"geohash_prefix"`
	Source        string     `bun:"source,notnull,default:'user'" json:"source"`
	SubmittedBy   *string    `bun:"submitted_by" json:"submitted_by,omitempty"`
	SubmittedAt   *time.Time `bun:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// RegisterZoneRequest is the body of POST /zones.
type RegisterZoneRequest struct {
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DeviceHash  string  `json:"device_hash,omitempty"`
}
