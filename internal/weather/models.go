package weather

// UnitCelsius is the only temperature unit the gateway requests from providers.
const UnitCelsius = "C"

// CurrentConditions is the normalized view of a city's current weather.
type CurrentConditions struct {
	Location     string  `json:"location"`
	TemperatureC float64 `json:"temperatureC"`
	Description  string  `json:"description"`
	Unit         string  `json:"unit"`
}

// ForecastEntry is one forecast step as returned by the provider.
// Timestamp keeps the provider's date-time text verbatim.
type ForecastEntry struct {
	Timestamp    string  `json:"timestamp"`
	TemperatureC float64 `json:"temperatureC"`
	Description  string  `json:"description"`
}

// Forecast is an ordered list of forecast steps, in provider order.
type Forecast []ForecastEntry
