// Package saferoute suggests nearby destinations a traveler can head to
// when they feel unsafe.
package saferoute

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/safetrip/safetrip/internal/places"
)

// Messages returned with a suggestion list.
const (
	MessageFound = "Safe routes found"
	MessageNone  = "No alternative routes available"
)

const maxAttractions = 3

// PlacesFinder returns nearby places of a category. It never fails.
type PlacesFinder interface {
	FetchNearby(ctx context.Context, lat, lon float64, category string) []places.Place
}

// DirectionsFinder returns walking instructions between two coordinates.
type DirectionsFinder interface {
	WalkingSteps(ctx context.Context, fromLat, fromLon, toLat, toLon float64) ([]string, error)
}

// Route is a suggested destination.
type Route struct {
	Destination string   `json:"destination"`
	Type        string   `json:"type"`
	Distance    string   `json:"distance"`
	Safety      string   `json:"safety"`
	Icon        string   `json:"icon"`
	Steps       []string `json:"steps,omitempty"`
}

// Suggester builds safe route suggestions.
type Suggester struct {
	places     PlacesFinder
	directions DirectionsFinder
	logger     zerolog.Logger
}

// NewSuggester creates a new suggester.
func NewSuggester(p PlacesFinder) *Suggester {
	return &Suggester{places: p, logger: zerolog.Nop()}
}

// WithDirections attaches walking directions to every suggestion. A failed
// lookup leaves that route without steps.
func (s *Suggester) WithDirections(d DirectionsFinder, logger zerolog.Logger) *Suggester {
	s.directions = d
	s.logger = logger
	return s
}

// Suggest returns at most one police station followed by up to three
// tourist attractions near the coordinate.
func (s *Suggester) Suggest(ctx context.Context, lat, lon float64) ([]Route, error) {
	var police, attractions []places.Place

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		attractions = s.places.FetchNearby(gctx, lat, lon, places.CategoryTouristAttraction)
		return ctx.Err()
	})
	g.Go(func() error {
		police = s.places.FetchNearby(gctx, lat, lon, places.CategoryPolice)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("finding safe routes: %w", err)
	}

	routes := make([]Route, 0, 1+maxAttractions)
	targets := make([]places.LatLng, 0, 1+maxAttractions)
	if len(police) > 0 {
		routes = append(routes, Route{
			Destination: police[0].Name,
			Type:        "Police Station",
			Distance:    distanceOrUnknown(police[0].Distance),
			Safety:      "High",
			Icon:        "🚔",
		})
		targets = append(targets, police[0].Location)
	}
	for i, p := range attractions {
		if i == maxAttractions {
			break
		}
		routes = append(routes, Route{
			Destination: p.Name,
			Type:        "Tourist Attraction",
			Distance:    distanceOrUnknown(p.Distance),
			Safety:      "Moderate",
			Icon:        "🏛️",
		})
		targets = append(targets, p.Location)
	}

	if s.directions != nil {
		s.addSteps(ctx, lat, lon, routes, targets)
	}
	return routes, nil
}

func (s *Suggester) addSteps(ctx context.Context, lat, lon float64, routes []Route, targets []places.LatLng) {
	var g errgroup.Group
	for i := range routes {
		g.Go(func() error {
			steps, err := s.directions.WalkingSteps(ctx, lat, lon, targets[i].Lat, targets[i].Lng)
			if err != nil {
				s.logger.Warn().Err(err).
					Str("destination", routes[i].Destination).
					Msg("walking directions unavailable")
				return nil
			}
			routes[i].Steps = steps
			return nil
		})
	}
	_ = g.Wait()
}

// Message describes a suggestion list.
func Message(routes []Route) string {
	if len(routes) > 0 {
		return MessageFound
	}
	return MessageNone
}

func distanceOrUnknown(d string) string {
	if d == "" {
		return "Unknown"
	}
	return d
}
