package search

import (
	"fmt"
	"strings"

	"github.com/azmataliakbar/weather-app/internal/weather"
)

// EmptyInputPolicy decides what happens to prior results when a search is
// submitted without a city.
type EmptyInputPolicy int

const (
	// KeepStale leaves the last results visible next to the error.
	KeepStale EmptyInputPolicy = iota
	// ClearOnEmpty clears the results along with setting the error.
	ClearOnEmpty
)

func (p EmptyInputPolicy) String() string {
	if p == ClearOnEmpty {
		return "clear"
	}
	return "keep-stale"
}

// ParseEmptyInputPolicy accepts "keep-stale" or "clear" (case-insensitive).
func ParseEmptyInputPolicy(s string) (EmptyInputPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep-stale", "keep":
		return KeepStale, nil
	case "clear", "clear-on-empty":
		return ClearOnEmpty, nil
	default:
		return KeepStale, fmt.Errorf("unknown empty input policy %q", s)
	}
}

// Messages are the user-facing texts shown in the error slot.
type Messages struct {
	EmptyCity string
	NotFound  string
	Network   string
	Transport string
	Parse     string
}

// DefaultMessages returns the stock texts. Everything except an unknown
// city reads as a generic fetch failure.
func DefaultMessages() Messages {
	const failed = "Failed to fetch weather data."
	return Messages{
		EmptyCity: "Please enter a city.",
		NotFound:  "City not found.",
		Network:   failed,
		Transport: failed,
		Parse:     failed,
	}
}

// For returns the message for a failure kind.
func (m Messages) For(k weather.Kind) string {
	switch k {
	case weather.KindNotFound:
		return m.NotFound
	case weather.KindNetwork:
		return m.Network
	case weather.KindParse:
		return m.Parse
	default:
		return m.Transport
	}
}

// Option configures a Controller.
type Option func(*Controller)

func WithEmptyInputPolicy(p EmptyInputPolicy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithMessages overrides the user-facing texts. Empty fields keep their
// defaults.
func WithMessages(m Messages) Option {
	return func(c *Controller) {
		def := c.messages
		if m.EmptyCity == "" {
			m.EmptyCity = def.EmptyCity
		}
		if m.NotFound == "" {
			m.NotFound = def.NotFound
		}
		if m.Network == "" {
			m.Network = def.Network
		}
		if m.Transport == "" {
			m.Transport = def.Transport
		}
		if m.Parse == "" {
			m.Parse = def.Parse
		}
		c.messages = m
	}
}

// WithForecastSteps caps the forecast length. Non-positive values are ignored.
func WithForecastSteps(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.steps = n
		}
	}
}
