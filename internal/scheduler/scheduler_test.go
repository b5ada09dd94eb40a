package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

type countingSweeper struct {
	calls int32
}

func (c *countingSweeper) Sweep() int {
	atomic.AddInt32(&c.calls, 1)
	return 1
}

func (c *countingSweeper) Len() int { return 0 }

func TestRunOnce(t *testing.T) {
	sw := &countingSweeper{}
	New(time.Minute, sw).RunOnce()
	if got := atomic.LoadInt32(&sw.calls); got != 1 {
		t.Fatalf("expected 1 sweep, got %d", got)
	}
}

func TestStartSweepsPeriodically(t *testing.T) {
	sw := &countingSweeper{}
	s := New(time.Second, sw)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for atomic.LoadInt32(&sw.calls) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 2 sweeps, got %d", atomic.LoadInt32(&sw.calls))
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestStartWithoutInterval(t *testing.T) {
	sw := &countingSweeper{}
	s := New(0, sw)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
	if got := atomic.LoadInt32(&sw.calls); got != 0 {
		t.Fatalf("expected no sweeps, got %d", got)
	}
}
