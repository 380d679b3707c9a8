package location

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// IPLocator resolves a public IP address to a location.
type IPLocator interface {
	LocateIP(ctx context.Context, ip string) (*Location, error)
	Name() string
}

// ReverseGeocoder turns a coordinate into an address.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (*Address, error)
	Name() string
}

// ServiceConfig holds configuration for the location service.
type ServiceConfig struct {
	// IPLocator resolves client IPs (required for ResolveFromIP).
	IPLocator IPLocator

	// Primary is the first reverse geocoder tried. Optional.
	Primary ReverseGeocoder

	// Secondary is tried when Primary fails or finds nothing. Optional.
	Secondary ReverseGeocoder

	// Logger for service operations.
	Logger zerolog.Logger

	// Timeout bounds each upstream call (default: 5 seconds).
	Timeout time.Duration
}

// Service resolves traveler locations.
type Service struct {
	ipLocator IPLocator
	geocoders []ReverseGeocoder
	logger    zerolog.Logger
	timeout   time.Duration
}

// NewService creates a new location service.
func NewService(cfg ServiceConfig) *Service {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	var geocoders []ReverseGeocoder
	for _, g := range []ReverseGeocoder{cfg.Primary, cfg.Secondary} {
		if g != nil {
			geocoders = append(geocoders, g)
		}
	}

	return &Service{
		ipLocator: cfg.IPLocator,
		geocoders: geocoders,
		logger:    cfg.Logger,
		timeout:   timeout,
	}
}

// ResolveFromIP returns the location of a client IP. Loopback addresses get
// the development location without any upstream call. Every upstream failure
// is reported as ErrUpstream. Fields the provider left empty carry the
// Unknown placeholders, as on the GPS path.
func (s *Service) ResolveFromIP(ctx context.Context, ip string) (*Location, error) {
	if IsLoopback(ip) {
		return DevelopmentLocation(ip), nil
	}
	if s.ipLocator == nil {
		return nil, ErrUpstream
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	loc, err := s.ipLocator.LocateIP(ctx, ip)
	if err != nil {
		s.logger.Error().Err(err).
			Str("ip", ip).
			Str("provider", s.ipLocator.Name()).
			Msg("ip geolocation failed")
		return nil, ErrUpstream
	}
	return withPlaceholders(loc), nil
}

// ResolveFromCoordinates reverse geocodes a GPS fix. It never fails: when
// every geocoder errors or finds nothing the Unknown location is returned
// with the input coordinates.
func (s *Service) ResolveFromCoordinates(ctx context.Context, lat, lon float64) *Location {
	for _, g := range s.geocoders {
		addr, err := s.reverse(ctx, g, lat, lon)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("provider", g.Name()).
				Float64("lat", lat).
				Float64("lon", lon).
				Msg("reverse geocoding failed")
			continue
		}
		if addr == nil {
			continue
		}
		return fromAddress(addr, lat, lon)
	}
	return UnknownLocation(lat, lon)
}

func (s *Service) reverse(ctx context.Context, g ReverseGeocoder, lat, lon float64) (*Address, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return g.ReverseGeocode(ctx, lat, lon)
}

func fromAddress(addr *Address, lat, lon float64) *Location {
	loc := &Location{
		City:        orUnknown(addr.City),
		Region:      orUnknown(addr.Region),
		Country:     orUnknown(addr.Country),
		CountryCode: addr.CountryCode,
		Latitude:    lat,
		Longitude:   lon,
		Timezone:    UnknownPlace,
	}
	if loc.CountryCode == "" {
		loc.CountryCode = UnknownCountryCode
	}
	return loc
}

func withPlaceholders(loc *Location) *Location {
	out := *loc
	out.City = orUnknown(out.City)
	out.Region = orUnknown(out.Region)
	out.Country = orUnknown(out.Country)
	out.Timezone = orUnknown(out.Timezone)
	if out.CountryCode == "" {
		out.CountryCode = UnknownCountryCode
	}
	return &out
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownPlace
	}
	return s
}
