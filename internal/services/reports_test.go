package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nepa-bknd/internal/models"
	"nepa-bknd/internal/power"
)

func TestShouldRecord(t *testing.T) {
	assert.True(t, shouldRecord(nil, true), "first report from a device always records")
	assert.True(t, shouldRecord(nil, false))

	last := &models.DeviceReport{IsCharging: true}
	assert.False(t, shouldRecord(last, true), "repeat of the same state is a no-op")
	assert.True(t, shouldRecord(last, false))

	last = &models.DeviceReport{IsCharging: false}
	assert.False(t, shouldRecord(last, false))
	assert.True(t, shouldRecord(last, true))
}

func TestFinalizeOutage(t *testing.T) {
	started := time.Date(2025, 8, 1, 19, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"rounds down below half minute", 95*time.Minute + 20*time.Second, 95},
		{"rounds up at half minute", 95*time.Minute + 30*time.Second, 96},
		{"zero duration", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := models.OutageEvent{ID: uuid.New(), StartedAt: started}
			now := started.Add(tt.elapsed)

			finalizeOutage(&o, now)

			require.NotNil(t, o.EndedAt)
			require.NotNil(t, o.DurationMinutes)
			assert.Equal(t, now, *o.EndedAt)
			assert.Equal(t, tt.want, *o.DurationMinutes)
		})
	}
}

// A full on -> off -> on cycle must open exactly one outage event and close
// it with the minute-rounded duration, even when an earlier event was left
// open by an override that wrote no history.
func TestOutageRoundTrip(t *testing.T) {
	th := power.DefaultThresholds()
	zoneID := uuid.New()
	t0 := time.Date(2025, 8, 1, 18, 0, 0, 0, time.UTC)

	// Stale leftover from a forced transition out of `off`.
	history := []models.OutageEvent{
		{ID: uuid.New(), ZoneID: zoneID, StartedAt: t0.Add(-2 * time.Hour), BuddyCount: 2},
	}
	openCount := func() int {
		n := 0
		for _, o := range history {
			if o.EndedAt == nil {
				n++
			}
		}
		return n
	}
	closeAll := func(now time.Time) {
		for i := range history {
			if history[i].EndedAt == nil {
				finalizeOutage(&history[i], now)
			}
		}
	}

	status := power.StatusOn

	apply := func(tally power.Tally, now time.Time) {
		next, _ := th.Decide(tally, now)
		if next == status {
			return
		}
		if power.LeavesOutage(status, next) {
			closeAll(now)
		}
		if power.EntersOutage(status, next) {
			closeAll(now)
			history = append(history, models.OutageEvent{
				ID:         uuid.New(),
				ZoneID:     zoneID,
				StartedAt:  now,
				BuddyCount: tally.Buddies,
				CreatedAt:  now,
			})
		}
		status = next
	}

	// Lights go out.
	offAt := t0.Add(10 * time.Minute)
	apply(power.Tally{Plugged: 1, Unplugged: 9, Buddies: 10, LastReportAt: offAt}, offAt)
	require.Equal(t, power.StatusOff, status)
	assert.Equal(t, 1, openCount(), "entering off settles leftovers before opening")
	require.Len(t, history, 2)

	// Lights come back 95m30s later.
	onAt := offAt.Add(95*time.Minute + 30*time.Second)
	apply(power.Tally{Plugged: 9, Unplugged: 1, Buddies: 10, LastReportAt: onAt}, onAt)
	require.Equal(t, power.StatusOn, status)
	assert.Equal(t, 0, openCount(), "leaving off closes every open event")

	closed := history[1]
	require.NotNil(t, closed.DurationMinutes)
	assert.Equal(t, 96, *closed.DurationMinutes)
	assert.Equal(t, onAt, *closed.EndedAt)
}
