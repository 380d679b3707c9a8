// Package googlemaps reverse geocodes coordinates with the Google Maps
// Geocoding API and looks up walking directions with the Directions API.
package googlemaps

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"

	"github.com/safetrip/safetrip/internal/location"
	"github.com/safetrip/safetrip/internal/provider/resilience"
)

// ProviderName identifies this provider in logs and the provider registry.
const ProviderName = "googlemaps"

// ClientConfig holds configuration for the Google Maps geocoder.
type ClientConfig struct {
	// APIKey is the Google Maps API key (required).
	APIKey string

	// BaseURL overrides the Maps API host. Used by tests.
	BaseURL string

	// HTTPClient is the resilient client requests are routed through (optional).
	HTTPClient *resilience.Client

	Logger zerolog.Logger
}

// Client reverse geocodes through googlemaps.github.io/maps.
type Client struct {
	maps   *maps.Client
	logger zerolog.Logger
}

var _ location.ReverseGeocoder = (*Client)(nil)

// NewClient creates a new Google Maps geocoder.
func NewClient(cfg ClientConfig) (*Client, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	opts := []maps.ClientOption{
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(httpClient.HTTPClient()),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}

	mc, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}

	return &Client{maps: mc, logger: cfg.Logger}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// ReverseGeocode returns the address of the first geocoding result. A
// coordinate with no results yields a nil address and no error.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (*location.Address, error) {
	results, err := c.maps.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lon},
	})
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	addr := &location.Address{}
	for _, comp := range results[0].AddressComponents {
		if slices.Contains(comp.Types, "locality") || slices.Contains(comp.Types, "administrative_area_level_2") {
			addr.City = comp.LongName
		}
		if slices.Contains(comp.Types, "administrative_area_level_1") {
			addr.Region = comp.LongName
		}
		if slices.Contains(comp.Types, "country") {
			addr.Country = comp.LongName
			addr.CountryCode = comp.ShortName
		}
	}
	return addr, nil
}

var markup = regexp.MustCompile(`<[^>]*>`)

// WalkingSteps returns the plain text instructions of the first walking
// route between two coordinates. No route yields nil steps and no error.
func (c *Client) WalkingSteps(ctx context.Context, fromLat, fromLon, toLat, toLon float64) ([]string, error) {
	routes, _, err := c.maps.Directions(ctx, &maps.DirectionsRequest{
		Origin:      latLng(fromLat, fromLon),
		Destination: latLng(toLat, toLon),
		Mode:        maps.TravelModeWalking,
	})
	if err != nil {
		return nil, fmt.Errorf("walking directions: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, nil
	}

	var steps []string
	for _, step := range routes[0].Legs[0].Steps {
		text := strings.Join(strings.Fields(markup.ReplaceAllString(step.HTMLInstructions, " ")), " ")
		if text != "" {
			steps = append(steps, text)
		}
	}
	return steps, nil
}

func latLng(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}
