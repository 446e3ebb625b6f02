// Package config reads application settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"cloudeng.io/errors"
	"github.com/joho/godotenv"

	"github.com/lululau/hijri/internal/visibility"
)

// Config holds all application settings.
type Config struct {
	// Observing site for crescent visibility, in hours.
	TimeZone    float64
	MinAgeHours float64
	SunsetHour  float64

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// HTTP server
	HTTPAddr string

	// ObservancesURL is where `hijri -u` downloads the observances table.
	ObservancesURL string
}

const defaultObservancesURL = "https://raw.githubusercontent.com/lululau/hijri/main/observances.json"

// Load reads settings from HIJRI_* environment variables, first loading a
// .env file from the working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	site := visibility.Mecca()
	cfg := &Config{}
	var errs errors.M

	cfg.TimeZone = getEnvFloat("HIJRI_TZ_OFFSET", site.TimeZone, &errs)
	cfg.MinAgeHours = getEnvFloat("HIJRI_MIN_CRESCENT_AGE", site.MinAgeHours, &errs)
	cfg.SunsetHour = getEnvFloat("HIJRI_SUNSET", site.SunsetHour, &errs)

	cfg.LogLevel = getEnv("HIJRI_LOG_LEVEL", "warn")
	cfg.LogFormat = getEnv("HIJRI_LOG_FORMAT", "text")

	cfg.HTTPAddr = getEnv("HIJRI_HTTP_ADDR", ":8080")
	cfg.ObservancesURL = getEnv("HIJRI_OBSERVANCES_URL", defaultObservancesURL)

	errs.Append(cfg.Validate())
	if err := errs.Err(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Visibility returns the observing site described by c.
func (c *Config) Visibility() visibility.Config {
	return visibility.Config{
		TimeZone:    c.TimeZone,
		MinAgeHours: c.MinAgeHours,
		SunsetHour:  c.SunsetHour,
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs errors.M
	errs.Append(c.Visibility().Validate())

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs.Append(fmt.Errorf("HIJRI_LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs.Append(fmt.Errorf("HIJRI_LOG_FORMAT must be json or text; got %q", c.LogFormat))
	}
	if c.HTTPAddr == "" {
		errs.Append(errors.New("HIJRI_HTTP_ADDR is required"))
	}
	return errs.Err()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64, errs *errors.M) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		errs.Append(fmt.Errorf("%s must be a number, got %q", key, value))
		return defaultValue
	}
	return f
}
