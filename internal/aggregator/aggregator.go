// Package aggregator assembles the safety context for a traveler: location,
// weather, nearby emergency services and the safety verdict.
package aggregator

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata" // IANA zones for location-local hours on minimal images

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/safetrip/safetrip/internal/location"
	"github.com/safetrip/safetrip/internal/places"
	"github.com/safetrip/safetrip/internal/safety"
	"github.com/safetrip/safetrip/internal/telemetry"
	"github.com/safetrip/safetrip/internal/weather"
)

var tracer = telemetry.Tracer("github.com/safetrip/safetrip/internal/aggregator")

// LocationResolver resolves traveler positions.
type LocationResolver interface {
	ResolveFromIP(ctx context.Context, ip string) (*location.Location, error)
	ResolveFromCoordinates(ctx context.Context, lat, lon float64) *location.Location
}

// WeatherFetcher returns current weather or nil.
type WeatherFetcher interface {
	FetchWeather(ctx context.Context, lat, lon float64) *weather.Reading
}

// PlacesFinder returns nearby places of a category. It never fails.
type PlacesFinder interface {
	FetchNearby(ctx context.Context, lat, lon float64, category string) []places.Place
}

// EmergencyServices groups nearby hospitals and police stations.
type EmergencyServices struct {
	Hospitals      []places.Place `json:"hospitals"`
	PoliceStations []places.Place `json:"policeStations"`
}

// Context is the aggregated safety context for one request.
type Context struct {
	Success           bool               `json:"success"`
	Location          *location.Location `json:"location"`
	Weather           *weather.Reading   `json:"weather"`
	Safety            safety.Verdict     `json:"safety"`
	EmergencyServices EmergencyServices  `json:"emergencyServices"`
	Timestamp         string             `json:"timestamp"`
}

// TimestampLayout is ISO 8601 with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Config holds the dependencies of the aggregator.
type Config struct {
	Locations LocationResolver
	Weather   WeatherFetcher
	Places    PlacesFinder
	Logger    zerolog.Logger

	// Now returns the current time (default: time.Now).
	Now func() time.Time
}

// Aggregator builds safety contexts.
type Aggregator struct {
	locations LocationResolver
	weather   WeatherFetcher
	places    PlacesFinder
	logger    zerolog.Logger
	now       func() time.Time
}

// New creates a new aggregator.
func New(cfg Config) *Aggregator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		locations: cfg.Locations,
		weather:   cfg.Weather,
		places:    cfg.Places,
		logger:    cfg.Logger,
		now:       now,
	}
}

// BuildFromIP resolves the client IP and builds its context. A failed IP
// lookup fails the whole build with location.ErrUpstream.
func (a *Aggregator) BuildFromIP(ctx context.Context, ip string) (*Context, error) {
	loc, err := a.locations.ResolveFromIP(ctx, ip)
	if err != nil {
		return nil, err
	}
	return a.build(ctx, loc)
}

// BuildFromCoordinates reverse geocodes a GPS fix and builds its context.
// It only fails when ctx is cancelled.
func (a *Aggregator) BuildFromCoordinates(ctx context.Context, lat, lon float64) (*Context, error) {
	loc := a.locations.ResolveFromCoordinates(ctx, lat, lon)
	return a.build(ctx, loc)
}

func (a *Aggregator) build(ctx context.Context, loc *location.Location) (*Context, error) {
	ctx, span := tracer.Start(ctx, "aggregator.build")
	defer span.End()
	span.SetAttributes(attribute.String("location.country_code", loc.CountryCode))

	var (
		reading   *weather.Reading
		hospitals []places.Place
		police    []places.Place
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reading = a.weather.FetchWeather(gctx, loc.Latitude, loc.Longitude)
		return ctx.Err()
	})
	g.Go(func() error {
		hospitals = a.places.FetchNearby(gctx, loc.Latitude, loc.Longitude, places.CategoryHospital)
		return ctx.Err()
	})
	g.Go(func() error {
		police = a.places.FetchNearby(gctx, loc.Latitude, loc.Longitude, places.CategoryPolice)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building context: %w", err)
	}

	now := a.now()
	verdict := safety.Score(loc, LocalHour(now, loc.Timezone), reading)

	a.logger.Debug().
		Str("city", loc.City).
		Str("country_code", loc.CountryCode).
		Str("level", string(verdict.Level)).
		Int("score", verdict.Score).
		Bool("weather", reading != nil).
		Msg("context built")

	return &Context{
		Success:  true,
		Location: loc,
		Weather:  reading,
		Safety:   verdict,
		EmergencyServices: EmergencyServices{
			Hospitals:      hospitals,
			PoliceStations: police,
		},
		Timestamp: now.UTC().Format(TimestampLayout),
	}, nil
}

// LocalHour returns the hour of t in the IANA zone tz, or in the server's
// local zone when tz is empty, "Unknown" or not a valid zone name.
func LocalHour(t time.Time, tz string) int {
	if tz != "" && tz != location.UnknownPlace {
		if zone, err := time.LoadLocation(tz); err == nil {
			return t.In(zone).Hour()
		}
	}
	return t.Local().Hour()
}
