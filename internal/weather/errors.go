package weather

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies gateway failures so callers can pick user-facing messages.
type Kind int

const (
	// KindTransport covers non-success statuses other than 404 and any
	// failure that cannot be classified more precisely.
	KindTransport Kind = iota
	KindNotFound
	KindNetwork
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	default:
		return "transport"
	}
}

// Sentinel errors for use with errors.Is.
var (
	ErrNotFound  = &Error{Kind: KindNotFound}
	ErrNetwork   = &Error{Kind: KindNetwork}
	ErrTransport = &Error{Kind: KindTransport}
	ErrParse     = &Error{Kind: KindParse}
)

// Error is a classified gateway failure.
type Error struct {
	Kind   Kind
	Op     string // "current" or "forecast"
	City   string
	Status int // HTTP status, when one was received
	Err    error
}

func (e *Error) Error() string {
	msg := "weather: " + e.Kind.String()
	if e.Op != "" {
		msg += " fetching " + e.Op
	}
	if e.City != "" {
		msg += fmt.Sprintf(" for %q", e.City)
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is implements errors.Is by comparing kinds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Errors that carry no *Error are treated as network
// failures when they look like one, and as transport failures otherwise.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	if isNetworkError(err) {
		return KindNetwork
	}
	return KindTransport
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// Classify wraps a raw failure from op into an *Error, keeping an existing
// classification if err already carries one.
func Classify(op, city string, err error) error {
	if err == nil {
		return nil
	}
	var we *Error
	if errors.As(err, &we) {
		return err
	}
	return &Error{Kind: KindOf(err), Op: op, City: city, Err: err}
}
