package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nepa-bknd/internal/power"
)

func sampleChange() StatusChange {
	return StatusChange{
		ZoneID:     uuid.New(),
		OldStatus:  power.StatusOn,
		NewStatus:  power.StatusOff,
		BuddyCount: 5,
		Confidence: power.ConfidenceMedium,
		Timestamp:  time.Now(),
	}
}

func TestBusFanOut(t *testing.T) {
	bus := NewBus()

	ch1, cancel1 := bus.Subscribe()
	ch2, cancel2 := bus.Subscribe()
	defer cancel1()
	defer cancel2()

	ev := sampleChange()
	bus.Publish(ev)

	require.Len(t, ch1, 1)
	require.Len(t, ch2, 1)
	assert.Equal(t, ev, <-ch1)
	assert.Equal(t, ev, <-ch2)
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.Subscribe()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after cancel must not panic or deliver.
	bus.Publish(sampleChange())
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		bus.Publish(sampleChange())
	}

	// Overflow is dropped, never blocking the publisher.
	assert.Len(t, ch, subscriberBuffer)
}

func TestBusCancelIsIdempotent(t *testing.T) {
	bus := NewBus()

	_, cancel := bus.Subscribe()
	cancel()
	assert.NotPanics(t, cancel)
}
