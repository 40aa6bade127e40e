package undo

import (
	"math"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/agendou/agendou/internal/utils"
)

// Record holds everything needed to reverse one creation. The store stamps
// CreatedAt and UndoDeadline on registration; callers fill the rest.
type Record struct {
	ExternalEventID string
	CalendarID      string
	EventTitle      string
	CreatedAt       time.Time
	UndoDeadline    time.Time
}

type entry struct {
	record Record
	cancel utils.CancelFunc
}

// Store is a time-boxed registry of undoable creations, keyed by the opaque
// handle minted at preview time. A record is alive from registration until
// its deadline; consuming is at-most-once. Each registration schedules a
// one-shot eviction shortly after the deadline so abandoned records do not
// accumulate. The store exclusively owns its records: Consume and Peek hand
// out copies.
type Store struct {
	mu        sync.Mutex
	clock     utils.Clock
	scheduler utils.Scheduler
	window    time.Duration
	grace     time.Duration
	entries   map[string]*entry
}

func NewStore(clock utils.Clock, scheduler utils.Scheduler, window, grace time.Duration) *Store {
	return &Store{
		clock:     clock,
		scheduler: scheduler,
		window:    window,
		grace:     grace,
		entries:   map[string]*entry{},
	}
}

// Register inserts or replaces the record for handle and returns it with the
// deadline stamped. Replacing a live handle cancels the previous eviction
// timer, so a replaced record can never be evicted by its predecessor's
// schedule.
func (s *Store) Register(handle string, rec Record) Record {
	now := s.clock.Now()
	rec.CreatedAt = now
	rec.UndoDeadline = now.Add(s.window)

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.entries[handle]; ok && prev.cancel != nil {
		prev.cancel()
	}
	e := &entry{record: rec}
	s.entries[handle] = e
	e.cancel = s.scheduler.Schedule(s.window+s.grace, func() {
		s.evict(handle, e)
	})
	return rec
}

// Consume atomically removes the record for handle and returns it if the
// deadline has not passed. An expired or missing handle yields nil; an
// expired entry is removed on the way out. A second call for the same handle
// always yields nil.
func (s *Store) Consume(handle string) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[handle]
	if !ok {
		return nil
	}
	delete(s.entries, handle)
	if e.cancel != nil {
		e.cancel()
	}
	if s.clock.Now().After(e.record.UndoDeadline) {
		return nil
	}
	rec := e.record
	return &rec
}

// Peek reads without removing, applying the same deadline check as Consume.
func (s *Store) Peek(handle string) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[handle]
	if !ok || s.clock.Now().After(e.record.UndoDeadline) {
		return nil
	}
	rec := e.record
	return &rec
}

func (s *Store) IsAlive(handle string) bool {
	return s.Peek(handle) != nil
}

// Registered reports whether a record is physically held for handle,
// deadline or not. It distinguishes "consumed or evicted" from "merely
// expired", which is what the expiry notification needs to know.
func (s *Store) Registered(handle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[handle]
	return ok
}

// RemainingSeconds returns the ceiling of the time left before the deadline,
// or 0 for absent and expired handles.
func (s *Store) RemainingSeconds(handle string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[handle]
	if !ok {
		return 0
	}
	remaining := e.record.UndoDeadline.Sub(s.clock.Now())
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Seconds()))
}

// Len reports how many records are physically held, alive or not. Expired
// entries linger until their eviction timer or a sweep removes them.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep evicts every record whose grace period has also passed. The
// per-handle timers normally do this; the sweep is the periodic safety net
// behind them.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	evicted := 0
	for handle, e := range s.entries {
		if now.After(e.record.UndoDeadline.Add(s.grace)) {
			if e.cancel != nil {
				e.cancel()
			}
			delete(s.entries, handle)
			evicted++
		}
	}
	if evicted > 0 {
		log.Debugf("Swept %d expired undo records", evicted)
	}
	return evicted
}

// evict is the timer callback. It only removes the exact entry it was
// scheduled for, so a consumed or replaced handle is left alone.
func (s *Store) evict(handle string, expected *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.entries[handle]; ok && current == expected {
		delete(s.entries, handle)
	}
}
