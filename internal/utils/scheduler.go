package utils

import (
	"sort"
	"sync"
	"time"
)

// CancelFunc stops a scheduled callback. It reports whether the callback was
// still pending, mirroring (*time.Timer).Stop.
type CancelFunc func() bool

// Scheduler schedules a one-shot callback after a delay. Injecting it keeps
// deadline-driven code testable without real wall-clock waits.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) CancelFunc
}

type SystemScheduler struct{}

func (s SystemScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	timer := time.AfterFunc(d, fn)
	return timer.Stop
}

// MockScheduler collects scheduled callbacks so tests can fire them
// deterministically.
type MockScheduler struct {
	mu     sync.Mutex
	nextID int
	jobs   map[int]*mockJob
}

type mockJob struct {
	delay time.Duration
	fn    func()
}

func NewMockScheduler() *MockScheduler {
	return &MockScheduler{jobs: map[int]*mockJob{}}
}

func (s *MockScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.jobs[id] = &mockJob{delay: d, fn: fn}

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.jobs[id]; !ok {
			return false
		}
		delete(s.jobs, id)
		return true
	}
}

// Pending returns the number of callbacks that were scheduled and neither
// fired nor cancelled.
func (s *MockScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// FireAll runs every pending callback and removes it. Callbacks fire in
// ascending delay order, ties in scheduling order, matching how real timers
// would come due.
func (s *MockScheduler) FireAll() {
	s.mu.Lock()
	type due struct {
		id  int
		job *mockJob
	}
	pending := make([]due, 0, len(s.jobs))
	for id, job := range s.jobs {
		pending = append(pending, due{id, job})
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].job.delay != pending[j].job.delay {
			return pending[i].job.delay < pending[j].job.delay
		}
		return pending[i].id < pending[j].id
	})
	fns := make([]func(), 0, len(pending))
	for _, d := range pending {
		fns = append(fns, d.job.fn)
		delete(s.jobs, d.id)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
