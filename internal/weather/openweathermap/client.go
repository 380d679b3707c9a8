// Package openweathermap implements current weather and reverse geocoding
// against the OpenWeatherMap REST API.
package openweathermap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/safetrip/safetrip/internal/location"
	"github.com/safetrip/safetrip/internal/provider/resilience"
	"github.com/safetrip/safetrip/internal/weather"
)

const (
	// ProviderName identifies this provider in logs and the provider registry.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap data API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// DefaultGeoBaseURL is the OpenWeatherMap geocoding API base URL.
	DefaultGeoBaseURL = "https://api.openweathermap.org/geo/1.0"
)

// ErrNoMatch is returned when reverse geocoding finds nothing at a coordinate.
var ErrNoMatch = errors.New("no place found at coordinate")

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the data API base URL (optional).
	BaseURL string

	// GeoBaseURL is the geocoding API base URL (optional).
	GeoBaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	geoBaseURL string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

var (
	_ weather.Provider         = (*Client)(nil)
	_ location.ReverseGeocoder = (*Client)(nil)
)

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	geoBaseURL := cfg.GeoBaseURL
	if geoBaseURL == "" {
		geoBaseURL = DefaultGeoBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		geoBaseURL: geoBaseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// CurrentWeather fetches current weather in metric units.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (*weather.Reading, error) {
	q := c.query(lat, lon)
	q.Set("units", "metric")

	var resp currentWeatherResponse
	if err := c.get(ctx, c.baseURL+"/weather", q, &resp); err != nil {
		return nil, err
	}

	reading := &weather.Reading{
		Temperature: resp.Main.Temp,
		FeelsLike:   resp.Main.FeelsLike,
		Humidity:    resp.Main.Humidity,
		WindSpeed:   resp.Wind.Speed,
		Pressure:    resp.Main.Pressure,
	}
	if len(resp.Weather) > 0 {
		reading.Description = resp.Weather[0].Description
		reading.Icon = resp.Weather[0].Icon
	}
	return reading, nil
}

// ReverseGeocode returns the first place the geocoding API knows at a coordinate.
// The response carries only an ISO country code, which is used for both
// Country and CountryCode.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (*location.Address, error) {
	q := c.query(lat, lon)
	q.Set("limit", "1")

	var resp []reverseGeocodeResult
	if err := c.get(ctx, c.geoBaseURL+"/reverse", q, &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, ErrNoMatch
	}

	r := resp[0]
	city := r.Name
	if city == "" {
		city = r.LocalNames.EN
	}
	return &location.Address{
		City:        city,
		Region:      r.State,
		Country:     r.Country,
		CountryCode: r.Country,
	}, nil
}

func (c *Client) query(lat, lon float64) url.Values {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	q.Set("appid", c.apiKey)
	return q
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// OpenWeatherMap API response structures.

type currentWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

type reverseGeocodeResult struct {
	Name       string `json:"name"`
	LocalNames struct {
		EN string `json:"en"`
	} `json:"local_names"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}
