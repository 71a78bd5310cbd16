package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestScheduler_FlushRunsPendingOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(time.Hour)
	defer s.Stop()

	var calls atomic.Int32
	s.Schedule("doc", func() { calls.Add(1) })

	if !s.Flush("doc") {
		t.Fatal("Flush = false, want pending work to run")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
	if s.Flush("doc") {
		t.Error("second Flush = true, want nothing pending")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d after second Flush, want 1", got)
	}
}

func TestScheduler_LastScheduleWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(time.Hour)
	defer s.Stop()

	var first, second atomic.Int32
	s.Schedule("doc", func() { first.Add(1) })
	s.Schedule("doc", func() { second.Add(1) })

	s.Flush("doc")
	if first.Load() != 0 {
		t.Error("replaced function ran")
	}
	if second.Load() != 1 {
		t.Error("latest function did not run")
	}
}

func TestScheduler_KeysAreIndependent(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(time.Hour)
	defer s.Stop()

	var a, b atomic.Int32
	s.Schedule("a", func() { a.Add(1) })
	s.Schedule("b", func() { b.Add(1) })

	s.Flush("a")
	if a.Load() != 1 || b.Load() != 0 {
		t.Errorf("a = %d, b = %d after flushing a", a.Load(), b.Load())
	}
}

func TestScheduler_ScheduleAfterFires(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(time.Hour)
	defer s.Stop()

	done := make(chan struct{})
	s.ScheduleAfter("doc", time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled function never fired")
	}
	if s.Flush("doc") {
		t.Error("Flush = true after the timer already fired")
	}
}

func TestScheduler_FlushAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(time.Hour)
	defer s.Stop()

	var calls atomic.Int32
	for _, key := range []string{"a", "b", "c"} {
		s.Schedule(key, func() { calls.Add(1) })
	}

	s.FlushAll()
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestScheduler_Stop(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(time.Hour)

	var calls atomic.Int32
	s.Schedule("doc", func() { calls.Add(1) })
	s.Stop()

	if s.Flush("doc") {
		t.Error("Flush = true after Stop")
	}
	s.Schedule("doc", func() { calls.Add(1) })
	if s.Flush("doc") {
		t.Error("Schedule accepted after Stop")
	}
	if calls.Load() != 0 {
		t.Errorf("calls = %d, want 0", calls.Load())
	}
}
