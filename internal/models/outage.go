package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// OutageEvent is one append-only outage history row. At most one open row
// (ended_at IS NULL) exists per zone at a time.
type OutageEvent struct {
	bun.BaseModel `bun:"table:outage_history,alias:oh"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	ZoneID          uuid.UUID  `bun:"zone_id,notnull,type:uuid" json:"zone_id"`
	StartedAt       time.Time  `bun:"started_at,notnull" json:"started_at"`
	EndedAt         *time.Time `bun:"ended_at" json:"ended_at"`
	DurationMinutes *int       `bun:"duration_minutes" json:"duration_minutes"`
	BuddyCount      int        `bun:"buddy_count,notnull,default:0" json:"buddy_count"`
	CreatedAt       time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Zone *Zone `bun:"rel:belongs-to,join:zone_id=id" json:"zone,omitempty"`
}

// OutageQueryParams filters outage history listings and exports.
type OutageQueryParams struct {
	ZoneID *uuid.UUID
	From   *time.Time
	To     *time.Time
	Limit  int
}
