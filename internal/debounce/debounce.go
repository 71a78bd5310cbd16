// Package debounce coalesces bursts of fire-and-forget saves into one
// deferred write per key. Callers schedule work; the last schedule for a
// key wins when its delay elapses. Flush runs a pending entry
// immediately, which lets tests drain timers deterministically.
package debounce

import (
	"sync"
	"time"
)

// Scheduler is a keyed debounce policy backed by a timer map.
type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*entry
	delay   time.Duration
	stopped bool
}

type entry struct {
	timer *time.Timer
	fn    func()
}

// New creates a Scheduler with the given default delay.
func New(delay time.Duration) *Scheduler {
	return &Scheduler{
		pending: make(map[string]*entry),
		delay:   delay,
	}
}

// Schedule queues fn to run after the default delay, replacing any
// pending work for the same key. fn runs on a timer goroutine.
func (s *Scheduler) Schedule(key string, fn func()) {
	s.ScheduleAfter(key, s.delay, fn)
}

// ScheduleAfter is Schedule with an explicit delay.
func (s *Scheduler) ScheduleAfter(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if prev, ok := s.pending[key]; ok {
		prev.timer.Stop()
	}
	e := &entry{fn: fn}
	e.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.pending[key] == e {
			delete(s.pending, key)
		}
		s.mu.Unlock()
		fn()
	})
	s.pending[key] = e
}

// Flush runs the pending work for key now, if any, and reports whether
// anything ran.
func (s *Scheduler) Flush(key string) bool {
	s.mu.Lock()
	e, ok := s.pending[key]
	if ok {
		e.timer.Stop()
		delete(s.pending, key)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	e.fn()
	return true
}

// FlushAll runs every pending entry now.
func (s *Scheduler) FlushAll() {
	s.mu.Lock()
	entries := make([]*entry, 0, len(s.pending))
	for k, e := range s.pending {
		e.timer.Stop()
		entries = append(entries, e)
		delete(s.pending, k)
	}
	s.mu.Unlock()

	for _, e := range entries {
		e.fn()
	}
}

// Stop cancels all pending work and rejects future schedules. Pending
// functions do not run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for k, e := range s.pending {
		e.timer.Stop()
		delete(s.pending, k)
	}
}
