package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/azmataliakbar/weather-app/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

const (
	opCurrent  = "current"
	opForecast = "forecast"
)

var (
	errMissingAPIKey = errors.New("openweather api key is not configured")
	errNoConditions  = errors.New("payload has no weather conditions")
)

// OpenWeatherGateway implements weather.Gateway for OpenWeatherMap.
type OpenWeatherGateway struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	tracer  trace.Tracer
}

var _ weather.Gateway = (*OpenWeatherGateway)(nil)

// NewOpenWeatherGateway builds a gateway for baseURL (DefaultOpenWeatherBaseURL
// when empty). The API key is required.
func NewOpenWeatherGateway(cfg HTTPClientConfig, baseURL, apiKey string) (*OpenWeatherGateway, error) {
	if apiKey == "" {
		return nil, errMissingAPIKey
	}
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid openweather base url: %w", err)
	}

	return &OpenWeatherGateway{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  cfg.Client,
		circuit: newCircuitBreaker("openweather", cfg.Breaker),
		tracer:  otel.Tracer("github.com/azmataliakbar/weather-app/openweather"),
	}, nil
}

func (g *OpenWeatherGateway) Name() string {
	return g.name
}

// FetchCurrent queries the current weather endpoint.
func (g *OpenWeatherGateway) FetchCurrent(ctx context.Context, city string) (weather.CurrentConditions, error) {
	ctx, span := g.startSpan(ctx, opCurrent, city)
	defer span.End()

	resp, err := doRequest(ctx, g.client, g.circuit, opCurrent, city, g.endpoint("weather", city))
	if err != nil {
		return weather.CurrentConditions{}, recordErr(span, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Name string `json:"name"`
		Main *struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []owmCondition `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentConditions{}, recordErr(span, parseErr(opCurrent, city, err))
	}
	if payload.Main == nil {
		return weather.CurrentConditions{}, recordErr(span, parseErr(opCurrent, city, errors.New("payload has no main block")))
	}
	desc, err := firstDescription(payload.Weather)
	if err != nil {
		return weather.CurrentConditions{}, recordErr(span, parseErr(opCurrent, city, err))
	}

	return weather.CurrentConditions{
		Location:     payload.Name,
		TemperatureC: payload.Main.Temp,
		Description:  desc,
		Unit:         weather.UnitCelsius,
	}, nil
}

// FetchForecast queries the 5 day / 3 hour forecast endpoint and keeps the
// first steps items in the order the provider returned them.
func (g *OpenWeatherGateway) FetchForecast(ctx context.Context, city string, steps int) (weather.Forecast, error) {
	ctx, span := g.startSpan(ctx, opForecast, city)
	defer span.End()

	if steps <= 0 {
		steps = weather.DefaultForecastSteps
	}

	resp, err := doRequest(ctx, g.client, g.circuit, opForecast, city, g.endpoint("forecast", city))
	if err != nil {
		return nil, recordErr(span, err)
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			DtTxt string `json:"dt_txt"`
			Main  *struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Weather []owmCondition `json:"weather"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, recordErr(span, parseErr(opForecast, city, err))
	}
	if payload.List == nil {
		return nil, recordErr(span, parseErr(opForecast, city, errors.New("payload has no list")))
	}

	items := payload.List
	if len(items) > steps {
		items = items[:steps]
	}

	forecast := make(weather.Forecast, 0, len(items))
	for i, item := range items {
		if item.Main == nil {
			return nil, recordErr(span, parseErr(opForecast, city, fmt.Errorf("list item %d has no main block", i)))
		}
		desc, err := firstDescription(item.Weather)
		if err != nil {
			return nil, recordErr(span, parseErr(opForecast, city, fmt.Errorf("list item %d: %w", i, err)))
		}
		forecast = append(forecast, weather.ForecastEntry{
			Timestamp:    item.DtTxt,
			TemperatureC: item.Main.Temp,
			Description:  desc,
		})
	}
	span.SetAttributes(attribute.Int("weather.forecast.steps", len(forecast)))

	return forecast, nil
}

type owmCondition struct {
	Description string `json:"description"`
}

func firstDescription(items []owmCondition) (string, error) {
	if len(items) == 0 {
		return "", errNoConditions
	}
	return items[0].Description, nil
}

// endpoint builds {baseURL}/{path}?q=...&appid=...&units=metric. The city is
// always query-encoded.
func (g *OpenWeatherGateway) endpoint(path, city string) string {
	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", g.apiKey)
	values.Set("units", "metric")

	return fmt.Sprintf("%s/%s?%s", g.baseURL, path, values.Encode())
}

func (g *OpenWeatherGateway) startSpan(ctx context.Context, op, city string) (context.Context, trace.Span) {
	return g.tracer.Start(ctx, "openweather."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("weather.provider", g.name),
			attribute.String("weather.city", city),
		),
	)
}

func parseErr(op, city string, err error) error {
	return &weather.Error{Kind: weather.KindParse, Op: op, City: city, Err: err}
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, weather.KindOf(err).String())
	return err
}
