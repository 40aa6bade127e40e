package event

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/agendou/agendou/internal/event_bus"
	"github.com/agendou/agendou/internal/utils"
)

// Entry is one confirmed creation as the journal remembers it.
type Entry struct {
	Handle          string
	Title           string
	StartDate       string
	ExternalEventID string
	CreatedAt       time.Time
	UndoDeadline    time.Time
	Undone          bool
}

// History is an in-memory journal of the most recent creations, fed by the
// event bus. It exists for the operational endpoints; the calendar itself is
// the source of truth, so the journal is bounded and not persisted.
type History struct {
	mu      sync.Mutex
	clock   utils.Clock
	limit   int
	entries []Entry // oldest first
}

// NewHistory subscribes the journal to the pipeline lifecycle events.
func NewHistory(bus *event_bus.EventBus, clock utils.Clock, limit int) *History {
	h := &History{clock: clock, limit: limit}
	event_bus.SubscribeTyped[event_bus.EventCreated](
		bus,
		"pipeline.event.created",
		func(e event_bus.EventT[event_bus.EventCreated]) error {
			log.Debugf("Journaling created event %s", e.Data.ExternalEventID)
			h.append(Entry{
				Handle:          e.Data.Handle,
				Title:           e.Data.Title,
				StartDate:       e.Data.StartDate,
				ExternalEventID: e.Data.ExternalEventID,
				UndoDeadline:    e.Data.UndoDeadline,
			})
			return nil
		},
	)
	event_bus.SubscribeTyped[event_bus.EventUndone](
		bus,
		"pipeline.event.undone",
		func(e event_bus.EventT[event_bus.EventUndone]) error {
			if !h.markUndone(e.Data.Handle) {
				log.Debugf("Undo for handle %s not present in the journal", e.Data.Handle)
			}
			return nil
		},
	)
	return h
}

func (h *History) append(entry Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry.CreatedAt = h.clock.Now()
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

func (h *History) markUndone(handle string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].Handle == handle {
			h.entries[i].Undone = true
			return true
		}
	}
	return false
}

// Recent returns up to limit entries, newest first.
func (h *History) Recent(limit int) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if limit > len(h.entries) {
		limit = len(h.entries)
	}
	recent := make([]Entry, 0, limit)
	for i := len(h.entries) - 1; i >= len(h.entries)-limit; i-- {
		recent = append(recent, h.entries[i])
	}
	return recent
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
