// Package config loads process configuration from the environment.
// It is read once at startup and never changed afterwards.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	// CountriesAPI is the country directory endpoint.
	CountriesAPI string `env:"COUNTRIES_API,required" validate:"required,url"`

	// ExchangeAPI is the exchange rate endpoint; its payload carries a "rates" object.
	ExchangeAPI string `env:"EXCHANGE_API,required" validate:"required,url"`

	// RequestTimeoutMS bounds each upstream call.
	RequestTimeoutMS int `env:"REQUEST_TIMEOUT_MS,required" validate:"gt=0"`

	Port string `env:"PORT,default=3000" validate:"required,numeric"`

	SummaryImagePath string `env:"SUMMARY_IMAGE_PATH,default=cache/summary.png" validate:"required"`

	DBPath string `env:"DB_PATH,default=countries.db" validate:"required"`

	LogDir string `env:"LOG_DIR,default=./logs"`

	// RefreshSchedule enables scheduled refreshes when set (cron syntax or "@every 6h").
	RefreshSchedule string `env:"REFRESH_SCHEDULE"`

	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL" validate:"omitempty,url"`

	// HealthCheckInterval is how often the upstream APIs are probed. Zero disables probing.
	HealthCheckInterval time.Duration `env:"HEALTH_CHECK_INTERVAL,default=5m" validate:"gte=0"`
}

// RequestTimeout is RequestTimeoutMS as a duration
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Load reads .env (if present) and the environment. Missing or invalid
// required settings are reported as an error.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	var cfg Config
	// Strict so unparseable numbers and durations fail instead of staying zero
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
