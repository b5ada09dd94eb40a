package weather

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("search: %w", &Error{Kind: KindNotFound, Op: "current", City: "Atlantis", Status: 404})

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is to match ErrNotFound: %v", err)
	}
	if errors.Is(err, ErrNetwork) {
		t.Fatalf("did not expect errors.Is to match ErrNetwork")
	}
	if got := KindOf(err); got != KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", got)
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Kind: KindParse, Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
}

func TestKindOfUnclassified(t *testing.T) {
	if got := KindOf(context.DeadlineExceeded); got != KindNetwork {
		t.Fatalf("expected deadline to be a network failure, got %v", got)
	}
	if got := KindOf(errors.New("something else")); got != KindTransport {
		t.Fatalf("expected unknown errors to be transport failures, got %v", got)
	}
}

func TestClassifyKeepsExistingKind(t *testing.T) {
	orig := &Error{Kind: KindParse, Op: "forecast"}
	if got := Classify("current", "Paris", orig); got != orig {
		t.Fatalf("expected classified error to pass through, got %v", got)
	}
	if Classify("current", "Paris", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}

	err := Classify("current", "Paris", context.Canceled)
	var we *Error
	if !errors.As(err, &we) || we.Kind != KindNetwork || we.Op != "current" {
		t.Fatalf("unexpected classification: %#v", err)
	}
}
