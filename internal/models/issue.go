package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Feedback types accepted from the quick-feedback buttons.
const (
	FeedbackLightOn  = "light_on"
	FeedbackLightOff = "light_off"
	FeedbackGenMode  = "gen_mode"
	FeedbackInverter = "inverter"
)

// UserFeedback is an explicit one-tap signal from a device. light_on and
// light_off additionally feed the report aggregator; gen_mode and inverter are
// informational only.
type UserFeedback struct {
	bun.BaseModel `bun:"table:user_feedback,alias:uf"`

	ID           uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	ZoneID       uuid.UUID `bun:"zone_id,notnull,type:uuid" json:"zone_id"`
	DeviceHash   string    `bun:"device_hash,notnull" json:"device_hash"`
	FeedbackType string    `bun:"feedback_type,notnull" json:"feedback_type"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Problem types accepted on power-issue reports.
const (
	ProblemNoPower          = "no_power"
	ProblemLowVoltage       = "low_voltage"
	ProblemFrequentTripping = "frequent_tripping"
	ProblemMeterIssues      = "meter_issues"
)

// PowerIssueReport is a free-text report with problem tags. It is persisted
// for the operator export panel; the text and tags never influence the status
// decision, only the power_available flag is forwarded as a device report.
type PowerIssueReport struct {
	bun.BaseModel `bun:"table:power_issue_reports,alias:pir"`

	ID                  uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	ZoneID              *uuid.UUID `bun:"zone_id,type:uuid" json:"zone_id"`
	LocationDescription string     `bun:"location_description,notnull" json:"location_description"`
	ProblemTypes        []string   `bun:"problem_types,array" json:"problem_types"`
	PowerAvailable      bool       `bun:"power_available,notnull" json:"power_available"`
	DeviceHash          *string    `bun:"device_hash" json:"device_hash"`
	AdditionalNotes     *string    `bun:"additional_notes" json:"additional_notes"`
	Status              string     `bun:"status,notnull,default:'pending'" json:"status"`
	ReportedAt          time.Time  `bun:"reported_at,notnull,default:current_timestamp" json:"reported_at"`
	CreatedAt           time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// CreateFeedbackRequest is the body of POST /feedback.
type CreateFeedbackRequest struct {
	ZoneID       uuid.UUID `json:"zone_id"`
	DeviceHash   string    `json:"device_hash"`
	FeedbackType string    `json:"feedback_type"`
}

// CreateIssueRequest is the body of POST /issues.
type CreateIssueRequest struct {
	ZoneID              *uuid.UUID `json:"zone_id,omitempty"`
	LocationDescription string     `json:"location_description"`
	ProblemTypes        []string   `json:"problem_types"`
	PowerAvailable      bool       `json:"power_available"`
	DeviceHash          *string    `json:"device_hash,omitempty"`
	AdditionalNotes     *string    `json:"additional_notes,omitempty"`
}
