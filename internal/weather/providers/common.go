package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/azmataliakbar/weather-app/internal/weather"
)

// BreakerConfig controls the circuit breaker guarding a provider.
type BreakerConfig struct {
	MaxRequests uint32        // requests allowed through while half-open
	Interval    time.Duration // window after which closed-state counts reset
	Timeout     time.Duration // how long the breaker stays open
	MaxFailures uint32        // consecutive failures that open the breaker
}

// DefaultBreakerConfig mirrors the settings used for every provider.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		MaxFailures: 5,
	}
}

// HTTPClientConfig bundles the HTTP client and breaker settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Breaker BreakerConfig
}

var (
	errServerError  = errors.New("server error")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

func newCircuitBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	})
}

// doRequest executes a single GET through the circuit breaker. It never
// retries. Network failures and 5xx responses count against the breaker;
// other non-success statuses are returned as classified errors without
// tripping it. On success the caller owns resp.Body.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	op, city, rawURL string,
) (*http.Response, error) {
	if client == nil {
		return nil, &weather.Error{Kind: weather.KindTransport, Op: op, City: city, Err: errNoHTTPClient}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &weather.Error{Kind: weather.KindTransport, Op: op, City: city, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	var status int
	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode >= 500 {
			status = resp.StatusCode
			drain(resp)
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &weather.Error{Kind: weather.KindNetwork, Op: op, City: city, Err: fmt.Errorf("%w: %v", errCircuitOpen, err)}
		}
		if status != 0 {
			return nil, &weather.Error{Kind: weather.KindTransport, Op: op, City: city, Status: status, Err: err}
		}
		return nil, weather.Classify(op, city, err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, &weather.Error{Kind: weather.KindTransport, Op: op, City: city, Err: fmt.Errorf("unexpected result type from circuit breaker")}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		drain(resp)
		return nil, &weather.Error{Kind: weather.KindNotFound, Op: op, City: city, Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		drain(resp)
		return nil, &weather.Error{Kind: weather.KindTransport, Op: op, City: city, Status: resp.StatusCode}
	}
	return resp, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
