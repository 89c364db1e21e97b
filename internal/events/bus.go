package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"nepa-bknd/internal/power"
)

// StatusChange is emitted once per zone status transition.
type StatusChange struct {
	ZoneID     uuid.UUID        `json:"zone_id"`
	OldStatus  power.Status     `json:"old_status"`
	NewStatus  power.Status     `json:"new_status"`
	BuddyCount int              `json:"buddy_count"`
	Confidence power.Confidence `json:"confidence"`
	Timestamp  time.Time        `json:"timestamp"`
}

const subscriberBuffer = 16

// Bus fans status changes out to in-process subscribers. Delivery is
// best-effort: a subscriber that falls behind loses events rather than
// blocking the publisher, and recovers on its next status query.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan StatusChange
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan StatusChange)}
}

// Subscribe returns a channel of status changes and a cancel function. The
// channel is closed on cancel.
func (b *Bus) Subscribe() (<-chan StatusChange, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan StatusChange, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber without blocking.
func (b *Bus) Publish(ev StatusChange) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
