package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nepa-bknd/internal/events"
	"nepa-bknd/internal/power"
)

func TestHubRelaysEvents(t *testing.T) {
	bus := events.NewBus()
	h := NewHub(bus, zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := &client{send: make(chan events.StatusChange, 16)}
	require.True(t, h.addClient(c))

	ev := events.StatusChange{
		ZoneID:     uuid.New(),
		OldStatus:  power.StatusOn,
		NewStatus:  power.StatusOff,
		BuddyCount: 5,
		Confidence: power.ConfidenceMedium,
		Timestamp:  time.Now().UTC(),
	}
	bus.Publish(ev)

	select {
	case got := <-c.send:
		assert.Equal(t, ev.ZoneID, got.ZoneID)
		assert.Equal(t, power.StatusOff, got.NewStatus)
	case <-time.After(time.Second):
		t.Fatal("event never reached the client")
	}
}

// After Run returns, register and unregister must not block: late upgrades
// are rejected and pump goroutines exit cleanly.
func TestHubRejectsClientsAfterShutdown(t *testing.T) {
	bus := events.NewBus()
	h := NewHub(bus, zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	cancel()

	select {
	case <-h.done:
	case <-time.After(time.Second):
		t.Fatal("hub never shut down")
	}

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		assert.False(t, h.addClient(&client{send: make(chan events.StatusChange, 1)}))
		h.removeClient(&client{})
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("register/unregister blocked after shutdown")
	}
}
