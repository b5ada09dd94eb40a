package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/azmataliakbar/weather-app/internal/search"
	"github.com/azmataliakbar/weather-app/internal/weather/providers"
)

type AppConfig struct {
	OpenWeatherAPIKey  string `validate:"required"`
	OpenWeatherBaseURL string `validate:"required,url"`

	// HTTPTimeout bounds each outbound provider call (0 = transport default).
	HTTPTimeout time.Duration `validate:"gte=0"`

	// ForecastSteps is how many forecast entries a search keeps.
	ForecastSteps int `validate:"min=1,max=40"`

	EmptyInputPolicy search.EmptyInputPolicy

	// Sessions idle longer than SessionMaxIdle are torn down by a job that
	// runs every SessionSweepInterval.
	SessionMaxIdle       time.Duration `validate:"gte=0"`
	SessionSweepInterval time.Duration `validate:"gte=0"`

	// ZipkinEndpoint enables span export when set.
	ZipkinEndpoint string `validate:"omitempty,url"`

	Port string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from the environment (and a .env file, if present)
// with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("OPENWEATHER_BASE_URL", providers.DefaultOpenWeatherBaseURL)
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("FORECAST_STEPS", 5)
	v.SetDefault("EMPTY_INPUT_POLICY", "keep-stale")
	v.SetDefault("SESSION_MAX_IDLE", "30m")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "5m")
	v.SetDefault("PORT", "8080")
	return v
}

// FromViper builds and validates an AppConfig from v.
func FromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		OpenWeatherAPIKey:  v.GetString("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: v.GetString("OPENWEATHER_BASE_URL"),
		ForecastSteps:      v.GetInt("FORECAST_STEPS"),
		ZipkinEndpoint:     v.GetString("ZIPKIN_ENDPOINT"),
		Port:               v.GetString("PORT"),
	}

	var err error
	if cfg.HTTPTimeout, err = getDuration(v, "HTTP_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.SessionMaxIdle, err = getDuration(v, "SESSION_MAX_IDLE"); err != nil {
		return nil, err
	}
	if cfg.SessionSweepInterval, err = getDuration(v, "SESSION_SWEEP_INTERVAL"); err != nil {
		return nil, err
	}

	policy, err := search.ParseEmptyInputPolicy(v.GetString("EMPTY_INPUT_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMPTY_INPUT_POLICY: %w", err)
	}
	cfg.EmptyInputPolicy = policy

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// Addr is the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return ":" + c.Port
}
