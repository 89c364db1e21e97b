package power

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecideEmptyTally(t *testing.T) {
	th := DefaultThresholds()
	now := time.Now()

	status, confidence := th.Decide(Tally{}, now)

	assert.Equal(t, StatusUnknown, status)
	assert.Equal(t, ConfidenceLow, confidence)
}

func TestDecideRatioBoundaries(t *testing.T) {
	th := DefaultThresholds()
	now := time.Now()

	tests := []struct {
		name      string
		plugged   int
		unplugged int
		want      Status
	}{
		{"all charging", 10, 0, StatusOn},
		{"none charging", 0, 10, StatusOff},
		{"even split", 5, 5, StatusRecovering},
		{"exactly at on threshold", 7, 3, StatusOn},
		{"exactly at off threshold", 3, 7, StatusOff},
		{"just under on threshold", 69, 31, StatusRecovering},
		{"just above off threshold", 31, 69, StatusRecovering},
		{"mixed leaning off", 4, 6, StatusRecovering},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tally := Tally{
				Plugged:      tt.plugged,
				Unplugged:    tt.unplugged,
				Buddies:      tt.plugged + tt.unplugged,
				LastReportAt: now.Add(-time.Minute),
			}
			status, _ := th.Decide(tally, now)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestDecideTenBuddyScenario(t *testing.T) {
	// 7 charging + 3 not, 10 distinct devices, fresh reports: on with high
	// confidence.
	th := DefaultThresholds()
	now := time.Now()

	tally := Tally{
		Plugged:      7,
		Unplugged:    3,
		Buddies:      10,
		LastReportAt: now.Add(-2 * time.Minute),
	}

	status, confidence := th.Decide(tally, now)

	assert.Equal(t, StatusOn, status)
	assert.Equal(t, ConfidenceHigh, confidence)
}

func TestDecideConfidence(t *testing.T) {
	th := DefaultThresholds()
	now := time.Now()

	tests := []struct {
		name    string
		buddies int
		age     time.Duration
		want    Confidence
	}{
		{"many buddies fresh", 12, time.Minute, ConfidenceHigh},
		{"many buddies stale-ish", 12, 20 * time.Minute, ConfidenceMedium},
		{"moderate buddies", 3, 25 * time.Minute, ConfidenceMedium},
		{"lone fresh buddy", 1, 5 * time.Minute, ConfidenceMedium},
		{"lone old buddy", 1, 25 * time.Minute, ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tally := Tally{
				Plugged:      tt.buddies,
				Buddies:      tt.buddies,
				LastReportAt: now.Add(-tt.age),
			}
			_, confidence := th.Decide(tally, now)
			assert.Equal(t, tt.want, confidence)
		})
	}
}

func TestOutageTransitions(t *testing.T) {
	assert.True(t, EntersOutage(StatusOn, StatusOff))
	assert.True(t, EntersOutage(StatusUnknown, StatusOff))
	assert.False(t, EntersOutage(StatusOff, StatusOff))
	assert.False(t, EntersOutage(StatusOff, StatusOn))

	assert.True(t, LeavesOutage(StatusOff, StatusOn))
	assert.True(t, LeavesOutage(StatusOff, StatusRecovering))
	assert.False(t, LeavesOutage(StatusOff, StatusOff))
	assert.False(t, LeavesOutage(StatusOn, StatusRecovering))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusOn.Valid())
	assert.True(t, StatusRecovering.Valid())
	assert.False(t, Status("flickering").Valid())

	assert.True(t, ConfidenceMedium.Valid())
	assert.False(t, Confidence("certain").Valid())
}
