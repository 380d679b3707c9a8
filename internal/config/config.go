// Package config loads service configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/safetrip/safetrip/internal/database"
)

// Config is the runtime configuration of the API server.
type Config struct {
	Port        string
	Environment string

	// OutboundTimeout bounds every upstream provider call.
	OutboundTimeout time.Duration

	// CORSAllowedOrigins are the dashboard origins allowed to call the API.
	CORSAllowedOrigins []string

	// RequireTLS rejects requests forwarded over plain HTTP.
	RequireTLS bool

	OpenWeatherAPIKey  string
	GooglePlacesAPIKey string
	GoogleMapsAPIKey   string

	DatabaseEnabled bool
	Database        database.Config

	TelemetryEnabled bool
	OTLPEndpoint     string
	TraceSampleRatio float64
}

// Load reads .env files (when present) and then the environment. Variables
// already set in the environment win over .env entries. Provider keys are
// not validated; a missing key only disables that provider.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	timeout, err := time.ParseDuration(getEnvOrDefault("OUTBOUND_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("OUTBOUND_TIMEOUT: %w", err)
	}

	ratio, err := strconv.ParseFloat(getEnvOrDefault("OTEL_TRACES_SAMPLE_RATIO", "1"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("OTEL_TRACES_SAMPLE_RATIO: %w", err)
	}

	return Config{
		Port:               getEnvOrDefault("APP_PORT", "8080"),
		Environment:        getEnvOrDefault("APP_ENV", "development"),
		OutboundTimeout:    timeout,
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		RequireTLS:         os.Getenv("REQUIRE_TLS") == "true",
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		GooglePlacesAPIKey: os.Getenv("GOOGLE_PLACES_API_KEY"),
		GoogleMapsAPIKey:   os.Getenv("GOOGLE_MAPS_API_KEY"),
		DatabaseEnabled:    os.Getenv("DB_ENABLED") == "true",
		Database:           database.ConfigFromEnv(),
		TelemetryEnabled:   os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:       getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TraceSampleRatio:   ratio,
	}, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
