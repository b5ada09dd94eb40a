package weather

import "context"

// DefaultForecastSteps is how many forecast steps a search keeps.
const DefaultForecastSteps = 5

// Gateway abstracts the external weather provider (e.g. OpenWeatherMap).
type Gateway interface {
	FetchCurrent(ctx context.Context, city string) (CurrentConditions, error)
	// FetchForecast returns at most steps entries, in provider order.
	FetchForecast(ctx context.Context, city string, steps int) (Forecast, error)
}
