package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/azmataliakbar/weather-app/internal/search"
)

func newTestRegistry(maxIdle time.Duration) (*Registry, *time.Time) {
	clock := time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(func() *search.Controller { return search.New(nil) }, maxIdle)
	r.now = func() time.Time { return clock }
	return r, &clock
}

func TestAcquireCreatesAndReuses(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)

	id, c1 := r.Acquire("")
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected a uuid session id, got %q", id)
	}

	id2, c2 := r.Acquire(id)
	if id2 != id || c2 != c1 {
		t.Fatalf("expected the same session to be returned")
	}

	id3, c3 := r.Acquire("not-a-uuid")
	if id3 == id || c3 == c1 {
		t.Fatalf("expected a fresh session for a malformed id")
	}

	unknown := uuid.NewString()
	id4, _ := r.Acquire(unknown)
	if id4 == unknown {
		t.Fatalf("expected unknown ids to be replaced, not adopted")
	}

	if r.Len() != 3 {
		t.Fatalf("expected 3 sessions, got %d", r.Len())
	}
}

func TestRemoveClosesController(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)
	id, c := r.Acquire("")

	if err := r.Remove(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Closed() {
		t.Fatal("expected controller to be closed")
	}
	if _, err := r.Get(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := r.Remove(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	r, clock := newTestRegistry(30 * time.Minute)

	idleID, idle := r.Acquire("")
	*clock = clock.Add(20 * time.Minute)
	activeID, active := r.Acquire("")

	*clock = clock.Add(15 * time.Minute)
	if got := r.Sweep(); got != 1 {
		t.Fatalf("expected 1 swept session, got %d", got)
	}
	if !idle.Closed() || active.Closed() {
		t.Fatalf("expected only the idle controller to be closed")
	}
	if _, err := r.Get(idleID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected idle session to be gone, got %v", err)
	}
	if _, err := r.Get(activeID); err != nil {
		t.Fatalf("expected active session to remain, got %v", err)
	}
}

func TestSweepDisabled(t *testing.T) {
	r, clock := newTestRegistry(0)
	r.Acquire("")
	*clock = clock.Add(24 * time.Hour)
	if got := r.Sweep(); got != 0 {
		t.Fatalf("expected no sweeping when maxIdle is 0, got %d", got)
	}
}

func TestCloseAll(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)
	_, a := r.Acquire("")
	_, b := r.Acquire("")

	r.CloseAll()
	if !a.Closed() || !b.Closed() || r.Len() != 0 {
		t.Fatalf("expected all sessions to be closed and removed")
	}
}
