// Package googleplaces performs nearby searches with the Google Places API.
package googleplaces

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"

	"github.com/safetrip/safetrip/internal/places"
	"github.com/safetrip/safetrip/internal/provider/resilience"
)

// ProviderName identifies this provider in logs and the provider registry.
const ProviderName = "googleplaces"

// PlaceholderAPIKey is the sample key shipped in example env files. It is
// treated the same as an unset key.
const PlaceholderAPIKey = "your_google_places_api_key"

// ClientConfig holds configuration for the Google Places client.
type ClientConfig struct {
	// APIKey is the Google Places API key (required).
	APIKey string

	// BaseURL overrides the Maps API host. Used by tests.
	BaseURL string

	// HTTPClient is the resilient client requests are routed through (optional).
	HTTPClient *resilience.Client

	Logger zerolog.Logger
}

// Client is a Google Places nearby search client.
type Client struct {
	maps   *maps.Client
	logger zerolog.Logger
}

var _ places.Provider = (*Client)(nil)

// Configured reports whether key is a usable Places API key.
func Configured(key string) bool {
	return key != "" && key != PlaceholderAPIKey
}

// NewClient creates a new Google Places client.
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

// NearbySearch lists places of a type within radiusMeters of a point.
// REQUEST_DENIED and INVALID_REQUEST statuses are returned as errors.
func (c *Client) NearbySearch(ctx context.Context, lat, lon float64, category string, radiusMeters uint) ([]places.Result, error) {
	resp, err := c.maps.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: lat, Lng: lon},
		Radius:   radiusMeters,
		Type:     maps.PlaceType(category),
	})
	if err != nil {
		return nil, fmt.Errorf("nearby search: %w", err)
	}

	out := make([]places.Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		res := places.Result{
			Name:     r.Name,
			Vicinity: r.Vicinity,
			Rating:   float64(r.Rating),
			Location: places.LatLng{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			Types:    r.Types,
		}
		if r.OpeningHours != nil {
			res.OpenNow = r.OpeningHours.OpenNow
		}
		out = append(out, res)
	}
	return out, nil
}
