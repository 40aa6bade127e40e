package stats

import (
	"sync"
	"time"

	"github.com/agendou/agendou/internal/event_bus"
	"github.com/agendou/agendou/internal/utils"
)

// Summary is a point-in-time snapshot of the lifecycle counters.
// ExpiredPreviewTaps counts button presses that arrived after their preview
// was gone; previews abandoned without any press leave no trace here.
type Summary struct {
	Since                 time.Time
	PreviewsSent          int
	PreviewsWithConflicts int
	RejectedAmbiguous     int
	RejectedInvalid       int
	Cancelled             int
	EditRequested         int
	Created               int
	Undone                int
	UndoExpired           int
	ExpiredPreviewTaps    int
}

// Collector tallies pipeline lifecycle events from the bus. Counters reset
// with the process; the calendar itself holds the durable record.
type Collector struct {
	mu      sync.Mutex
	summary Summary
}

func NewCollector(bus *event_bus.EventBus, clock utils.Clock) *Collector {
	c := &Collector{summary: Summary{Since: clock.Now()}}
	event_bus.SubscribeTyped[event_bus.PreviewSent](
		bus,
		"pipeline.preview.sent",
		func(e event_bus.EventT[event_bus.PreviewSent]) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.summary.PreviewsSent++
			if e.Data.HasConflicts {
				c.summary.PreviewsWithConflicts++
			}
			return nil
		},
	)
	event_bus.SubscribeTyped[event_bus.AttemptRejected](
		bus,
		"pipeline.attempt.rejected",
		func(e event_bus.EventT[event_bus.AttemptRejected]) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			if e.Data.Outcome == "ambiguous" {
				c.summary.RejectedAmbiguous++
			} else {
				c.summary.RejectedInvalid++
			}
			return nil
		},
	)
	event_bus.SubscribeTyped[event_bus.AttemptClosed](
		bus,
		"pipeline.attempt.closed",
		func(e event_bus.EventT[event_bus.AttemptClosed]) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			if e.Data.Reason == "edit_requested" {
				c.summary.EditRequested++
			} else {
				c.summary.Cancelled++
			}
			return nil
		},
	)
	event_bus.SubscribeTyped[event_bus.EventCreated](
		bus,
		"pipeline.event.created",
		func(e event_bus.EventT[event_bus.EventCreated]) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.summary.Created++
			return nil
		},
	)
	event_bus.SubscribeTyped[event_bus.EventUndone](
		bus,
		"pipeline.event.undone",
		func(e event_bus.EventT[event_bus.EventUndone]) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.summary.Undone++
			return nil
		},
	)
	event_bus.SubscribeTyped[event_bus.UndoExpired](
		bus,
		"pipeline.undo.expired",
		func(e event_bus.EventT[event_bus.UndoExpired]) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.summary.UndoExpired++
			return nil
		},
	)
	event_bus.SubscribeTyped[event_bus.PreviewExpired](
		bus,
		"pipeline.preview.expired",
		func(e event_bus.EventT[event_bus.PreviewExpired]) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.summary.ExpiredPreviewTaps++
			return nil
		},
	)
	return c
}

func (c *Collector) Snapshot() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary
}
