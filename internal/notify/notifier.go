package notify

import (
	"context"

	"go.uber.org/zap"

	"nepa-bknd/internal/events"
)

// Dispatcher is the push-delivery boundary. The core only guarantees
// at-least-once emission of status changes; the dispatcher owns delivery and
// deduplication.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev events.StatusChange) error
}

// LogDispatcher records transitions to the log. Stands in for a real push
// backend in development and doubles as an audit trail in production.
type LogDispatcher struct {
	logr *zap.Logger
}

func NewLogDispatcher(logr *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logr: logr}
}

func (d *LogDispatcher) Dispatch(_ context.Context, ev events.StatusChange) error {
	d.logr.Info("zone status changed",
		zap.String("zone_id", ev.ZoneID.String()),
		zap.String("old_status", string(ev.OldStatus)),
		zap.String("new_status", string(ev.NewStatus)),
		zap.Int("buddy_count", ev.BuddyCount),
		zap.String("confidence", string(ev.Confidence)))
	return nil
}

// Runner drains a bus subscription into a dispatcher until ctx ends.
type Runner struct {
	bus        *events.Bus
	dispatcher Dispatcher
	logr       *zap.Logger
}

func NewRunner(bus *events.Bus, dispatcher Dispatcher, logr *zap.Logger) *Runner {
	return &Runner{bus: bus, dispatcher: dispatcher, logr: logr}
}

func (r *Runner) Run(ctx context.Context) {
	ch, cancel := r.bus.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := r.dispatcher.Dispatch(ctx, ev); err != nil {
				r.logr.Warn("notification dispatch failed",
					zap.Error(err),
					zap.String("zone_id", ev.ZoneID.String()))
			}
		}
	}
}
