package session

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/azmataliakbar/weather-app/internal/search"
)

var (
	// ErrNotFound is returned when no session exists for an ID.
	ErrNotFound = errors.New("session not found")
)

// Factory builds the controller for a new session.
type Factory func() *search.Controller

type entry struct {
	controller *search.Controller
	lastSeen   time.Time
}

// Registry is a concurrency-safe in-memory map of session IDs to search
// controllers. Creating a session mounts a controller; removing or sweeping
// it tears the controller down.
type Registry struct {
	mu sync.RWMutex

	data map[string]*entry

	factory Factory
	maxIdle time.Duration // 0 = sessions never expire
	now     func() time.Time
}

// NewRegistry creates a Registry. If maxIdle is <= 0, sessions only end when
// removed explicitly.
func NewRegistry(factory Factory, maxIdle time.Duration) *Registry {
	return &Registry{
		data:    make(map[string]*entry),
		factory: factory,
		maxIdle: maxIdle,
		now:     time.Now,
	}
}

// Acquire returns the controller for id, creating a new session when id is
// empty, malformed or unknown. The returned id is the one to hand back to
// the client.
func (r *Registry) Acquire(id string) (string, *search.Controller) {
	now := r.now()

	if _, err := uuid.Parse(id); err == nil {
		r.mu.Lock()
		if e, ok := r.data[id]; ok {
			e.lastSeen = now
			r.mu.Unlock()
			return id, e.controller
		}
		r.mu.Unlock()
	}

	id = uuid.NewString()
	ctrl := r.factory()

	r.mu.Lock()
	r.data[id] = &entry{controller: ctrl, lastSeen: now}
	r.mu.Unlock()

	log.Printf("session: created %s", id)
	return id, ctrl
}

// Get returns the controller for an existing session.
func (r *Registry) Get(id string) (*search.Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = r.now()
	return e.controller, nil
}

// Remove ends a session and tears down its controller.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	e, ok := r.data[id]
	if ok {
		delete(r.data, id)
	}
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	e.controller.Close()
	log.Printf("session: removed %s", id)
	return nil
}

// Sweep ends every session idle for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Sweep() int {
	if r.maxIdle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.maxIdle)

	var expired []*search.Controller
	r.mu.Lock()
	for id, e := range r.data {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.controller)
			delete(r.data, id)
		}
	}
	r.mu.Unlock()

	for _, c := range expired {
		c.Close()
	}
	return len(expired)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// CloseAll tears down every session, e.g. on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	data := r.data
	r.data = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range data {
		e.controller.Close()
	}
}
