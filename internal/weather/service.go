package weather

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/safetrip/safetrip/pkg/geo"
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// CurrentWeather fetches current weather for a location.
	CurrentWeather(ctx context.Context, lat, lon float64) (*Reading, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider. Nil when no API key is configured.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// Timeout bounds a single fetch (default: 5 seconds).
	Timeout time.Duration
}

// Service provides current weather, degrading to nil on any failure.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	timeout  time.Duration
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		timeout:  timeout,
	}
}

// FetchWeather returns the current weather for a location, or nil when the
// provider is unconfigured, fails or times out. Errors are logged, never returned.
func (s *Service) FetchWeather(ctx context.Context, lat, lon float64) *Reading {
	reading, err := s.fetch(ctx, lat, lon)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("weather unavailable")
		return nil
	}
	return reading
}

func (s *Service) fetch(ctx context.Context, lat, lon float64) (*Reading, error) {
	if !(geo.Coordinate{Lat: lat, Lon: lon}).Valid() {
		return nil, ErrInvalidCoordinates
	}
	if s.provider == nil {
		return nil, ErrProviderUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("provider", s.provider.Name()).
		Msg("fetching weather from provider")

	return s.provider.CurrentWeather(ctx, lat, lon)
}
