package places

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/safetrip/safetrip/pkg/geo"
)

// ErrNoProvider is logged when no places API key is configured.
var ErrNoProvider = errors.New("places provider not configured")

// Provider performs nearby searches against a live places API.
type Provider interface {
	NearbySearch(ctx context.Context, lat, lon float64, category string, radiusMeters uint) ([]Result, error)
	Name() string
}

// ServiceConfig holds configuration for the places service.
type ServiceConfig struct {
	// Provider is the live places API. Nil when no key is configured.
	Provider Provider

	Logger zerolog.Logger

	// Timeout bounds each provider call (default: 5 seconds).
	Timeout time.Duration
}

// Service finds nearby places.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	timeout  time.Duration
}

// NewService creates a new places service.
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

// FetchNearby returns up to MaxResults places of a category around a point.
// It never fails: a missing provider, a provider error, a timeout or an
// empty result all return SyntheticFallback.
func (s *Service) FetchNearby(ctx context.Context, lat, lon float64, category string) []Place {
	results, err := s.search(ctx, lat, lon, category)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("category", category).
			Msg("nearby search failed, using fallback places")
		return SyntheticFallback(lat, lon, category)
	}
	if len(results) == 0 {
		s.logger.Warn().
			Str("category", category).
			Msg("no nearby results, using fallback places")
		return SyntheticFallback(lat, lon, category)
	}

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}

	origin := geo.Coordinate{Lat: lat, Lon: lon}
	out := make([]Place, 0, len(results))
	for _, r := range results {
		out = append(out, toPlace(origin, r))
	}
	return out
}

func (s *Service) search(ctx context.Context, lat, lon float64, category string) ([]Result, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.provider.NearbySearch(ctx, lat, lon, category, SearchRadiusMeters)
}

func toPlace(origin geo.Coordinate, r Result) Place {
	isOpen := true
	if r.OpenNow != nil {
		isOpen = *r.OpenNow
	}

	phone := r.Phone
	if phone == "" {
		phone = NotAvailable
	}

	types := r.Types
	if types == nil {
		types = []string{}
	}

	return Place{
		Name:     r.Name,
		Address:  r.Vicinity,
		Rating:   RoundRating(r.Rating),
		Distance: geo.Distance(origin, geo.Coordinate{Lat: r.Location.Lat, Lon: r.Location.Lng}),
		Location: r.Location,
		IsOpen:   isOpen,
		Types:    types,
		Phone:    phone,
	}
}
