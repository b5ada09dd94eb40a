package search

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/azmataliakbar/weather-app/internal/weather"
)

var (
	// ErrEmptyCity is returned when a search is submitted without a city.
	ErrEmptyCity = errors.New("search: empty city")
	// ErrSuperseded is returned when a newer search was issued before this
	// one completed; its result was discarded.
	ErrSuperseded = errors.New("search: superseded by a newer search")
	// ErrClosed is returned once the controller has been torn down.
	ErrClosed = errors.New("search: controller closed")
)

// State is a snapshot of a controller's search state.
type State struct {
	City     string                     `json:"city"`
	Current  *weather.CurrentConditions `json:"current,omitempty"`
	Forecast weather.Forecast           `json:"forecast"`
	Error    string                     `json:"error,omitempty"`
	// Seq is the token of the last search whose outcome was applied.
	Seq uint64 `json:"seq"`
}

// Controller owns the city input and the result slots for one session.
// Only the most recent search may write results.
type Controller struct {
	gateway  weather.Gateway
	policy   EmptyInputPolicy
	messages Messages
	steps    int

	mu     sync.Mutex
	state  State
	seq    uint64 // last issued token
	closed bool
}

// New creates a controller with empty state.
func New(gw weather.Gateway, opts ...Option) *Controller {
	c := &Controller{
		gateway:  gw,
		policy:   KeepStale,
		messages: DefaultMessages(),
		steps:    weather.DefaultForecastSteps,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state.Forecast = weather.Forecast{}
	return c
}

// Submit runs one search for city. Both gateway calls are issued
// concurrently and the state changes only after both complete. The returned
// State is the controller's snapshot after the call, whether or not this
// search's result was applied.
func (c *Controller) Submit(ctx context.Context, city string) (State, error) {
	city = strings.TrimSpace(city)

	c.mu.Lock()
	if c.closed {
		st := c.snapshotLocked()
		c.mu.Unlock()
		return st, ErrClosed
	}
	c.state.City = city
	if city == "" {
		c.state.Error = c.messages.EmptyCity
		if c.policy == ClearOnEmpty {
			c.clearResultsLocked()
		}
		st := c.snapshotLocked()
		c.mu.Unlock()
		return st, ErrEmptyCity
	}
	c.seq++
	token := c.seq
	c.state.Error = ""
	c.mu.Unlock()

	current, forecast, err := c.fetch(ctx, city)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		log.Printf("search: dropping result for %q after teardown", city)
		return c.snapshotLocked(), ErrClosed
	}
	if token != c.seq {
		log.Printf("search: dropping stale result for %q (token %d, latest %d)", city, token, c.seq)
		return c.snapshotLocked(), ErrSuperseded
	}

	c.state.Seq = token
	if err != nil {
		log.Printf("ERROR: search: fetch failed for %q: %v", city, err)
		c.clearResultsLocked()
		c.state.Error = c.messages.For(weather.KindOf(err))
		return c.snapshotLocked(), err
	}

	c.state.Current = &current
	c.state.Forecast = forecast
	c.state.Error = ""
	return c.snapshotLocked(), nil
}

// fetch issues both gateway calls concurrently and waits for both. When both
// fail, the current-conditions error wins.
func (c *Controller) fetch(ctx context.Context, city string) (weather.CurrentConditions, weather.Forecast, error) {
	var (
		wg          sync.WaitGroup
		current     weather.CurrentConditions
		forecast    weather.Forecast
		currentErr  error
		forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = c.gateway.FetchCurrent(ctx, city)
	}()
	go func() {
		defer wg.Done()
		forecast, forecastErr = c.gateway.FetchForecast(ctx, city, c.steps)
	}()
	wg.Wait()

	if currentErr != nil {
		return weather.CurrentConditions{}, nil, weather.Classify("current", city, currentErr)
	}
	if forecastErr != nil {
		return weather.CurrentConditions{}, nil, weather.Classify("forecast", city, forecastErr)
	}
	if len(forecast) > c.steps {
		forecast = forecast[:c.steps]
	}
	if forecast == nil {
		forecast = weather.Forecast{}
	}
	return current, forecast, nil
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close tears the controller down. Outstanding searches will not write
// state, and later submits return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.seq++
}

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) clearResultsLocked() {
	c.state.Current = nil
	c.state.Forecast = weather.Forecast{}
}

func (c *Controller) snapshotLocked() State {
	st := c.state
	if c.state.Current != nil {
		cur := *c.state.Current
		st.Current = &cur
	}
	st.Forecast = make(weather.Forecast, len(c.state.Forecast))
	copy(st.Forecast, c.state.Forecast)
	return st
}
