package power

import "time"

// Status is the consensus power state of a zone.
type Status string

const (
	StatusOn         Status = "on"
	StatusOff        Status = "off"
	StatusRecovering Status = "recovering"
	StatusUnknown    Status = "unknown"
)

// Valid reports whether s is one of the four known states.
func (s Status) Valid() bool {
	switch s {
	case StatusOn, StatusOff, StatusRecovering, StatusUnknown:
		return true
	}
	return false
}

// Confidence is the qualitative trust level in a zone status.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Valid reports whether c is a known confidence level.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// Tally is the windowed aggregate of device reports for one zone.
type Tally struct {
	Plugged      int
	Unplugged    int
	Buddies      int
	LastReportAt time.Time // zero when the window is empty
}

// Total returns the number of reports in the window.
func (t Tally) Total() int { return t.Plugged + t.Unplugged }

// Thresholds are the policy knobs of the decision function. The on/off ratio
// split is the one constant directly evidenced by the product; the confidence
// cutoffs are operational defaults and stay configurable.
type Thresholds struct {
	OnRatio          float64
	OffRatio         float64
	HighBuddyCount   int
	MediumBuddyCount int
	Recency          time.Duration
	Staleness        time.Duration
}

// DefaultThresholds returns the documented default policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OnRatio:          0.7,
		OffRatio:         0.3,
		HighBuddyCount:   10,
		MediumBuddyCount: 3,
		Recency:          10 * time.Minute,
		Staleness:        30 * time.Minute,
	}
}

// Decide derives status and confidence from a tally. It is pure: retries after
// a write conflict are safe as long as the tally is re-read first.
func (th Thresholds) Decide(t Tally, now time.Time) (Status, Confidence) {
	total := t.Total()
	if total == 0 {
		return StatusUnknown, ConfidenceLow
	}

	onRatio := float64(t.Plugged) / float64(total)
	status := StatusRecovering
	switch {
	case onRatio >= th.OnRatio:
		status = StatusOn
	case onRatio <= th.OffRatio:
		status = StatusOff
	}

	return status, th.confidence(t, now)
}

func (th Thresholds) confidence(t Tally, now time.Time) Confidence {
	fresh := !t.LastReportAt.IsZero() && now.Sub(t.LastReportAt) <= th.Recency
	switch {
	case t.Buddies >= th.HighBuddyCount && fresh:
		return ConfidenceHigh
	case t.Buddies >= th.MediumBuddyCount:
		return ConfidenceMedium
	case t.Buddies >= 1 && fresh:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// EntersOutage reports whether the transition from old to new opens an outage.
func EntersOutage(old, new Status) bool {
	return new == StatusOff && old != StatusOff
}

// LeavesOutage reports whether the transition from old to new closes the
// zone's open outage, if any.
func LeavesOutage(old, new Status) bool {
	return old == StatusOff && new != StatusOff
}
