package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DeviceReport is one raw signal from an anonymous device. A device
// contributes many reports over time; there is no uniqueness constraint and
// the aggregator tallies over a recency window instead.
type DeviceReport struct {
	bun.BaseModel `bun:"table:device_reports,alias:dr"`

	ID         uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	ZoneID     uuid.UUID `bun:"zone_id,notnull,type:uuid" json:"zone_id"`
	DeviceHash string    `bun:"device_hash,notnull" json:"device_hash"`
	IsCharging bool      `bun:"is_charging,notnull" json:"is_charging"`
	ReportedAt time.Time `bun:"reported_at,notnull,default:current_timestamp" json:"reported_at"`
}

// RecordReportRequest is the body of POST /reports.
type RecordReportRequest struct {
	ZoneID     uuid.UUID `json:"zone_id"`
	DeviceHash string    `json:"device_hash"`
	IsCharging bool      `json:"is_charging"`
}
