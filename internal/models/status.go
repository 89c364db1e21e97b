package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"nepa-bknd/internal/power"
)

// ZonePowerStatus is the derived consensus row, 1:1 with a zone. Status and
// confidence are a pure function of the report tally; only the administrative
// override path writes them directly.
type ZonePowerStatus struct {
	bun.BaseModel `bun:"table:zone_power_status,alias:zps"`

	ID             uuid.UUID        `bun:"id,pk,type:uuid" json:"id"`
	ZoneID         uuid.UUID        `bun:"zone_id,notnull,type:uuid" json:"zone_id"`
	Status         power.Status     `bun:"status,notnull,default:'unknown'" json:"status"`
	Confidence     power.Confidence `bun:"confidence,notnull,default:'low'" json:"confidence"`
	BuddyCount     int              `bun:"buddy_count,notnull,default:0" json:"buddy_count"`
	PluggedCount   int              `bun:"plugged_count,notnull,default:0" json:"plugged_count"`
	UnpluggedCount int              `bun:"unplugged_count,notnull,default:0" json:"unplugged_count"`
	LastChangeAt   time.Time        `bun:"last_change_at,notnull,default:current_timestamp" json:"last_change_at"`
	UpdatedAt      time.Time        `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	Zone *Zone `bun:"rel:belongs-to,join:zone_id=id" json:"zone,omitempty"`
}

// ForceStatusRequest is the body of the admin simulation override.
type ForceStatusRequest struct {
	Status     power.Status     `json:"status"`
	Confidence power.Confidence `json:"confidence"`
}
