// Package ipapi resolves IP addresses through the ipapi.co JSON API.
package ipapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/safetrip/safetrip/internal/location"
	"github.com/safetrip/safetrip/internal/provider/resilience"
)

const (
	// ProviderName identifies this provider in logs and the provider registry.
	ProviderName = "ipapi"

	// DefaultBaseURL is the ipapi.co base URL. No API key is needed.
	DefaultBaseURL = "https://ipapi.co"
)

// ErrLookupRejected is returned when ipapi.co answers with an error payload,
// for example for reserved addresses or when rate limited.
var ErrLookupRejected = errors.New("ip lookup rejected")

// ClientConfig holds configuration for the ipapi.co client.
type ClientConfig struct {
	// BaseURL overrides the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *resilience.Client

	Logger zerolog.Logger
}

// Client is an ipapi.co client.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

var _ location.IPLocator = (*Client)(nil)

// NewClient creates a new ipapi.co client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// LocateIP looks up a single IP address.
func (c *Client) LocateIP(ctx context.Context, ip string) (*location.Location, error) {
	endpoint := fmt.Sprintf("%s/%s/json/", c.baseURL, url.PathEscape(ip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if body.Error || body.Reason != "" {
		return nil, fmt.Errorf("%w: %s", ErrLookupRejected, body.Reason)
	}

	return &location.Location{
		IP:           body.IP,
		City:         body.City,
		Region:       body.Region,
		Country:      body.CountryName,
		CountryCode:  body.CountryCode,
		Latitude:     body.Latitude,
		Longitude:    body.Longitude,
		Timezone:     body.Timezone,
		Postal:       body.Postal,
		Organization: body.Org,
	}, nil
}

type lookupResponse struct {
	IP          string  `json:"ip"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	CountryName string  `json:"country_name"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone"`
	Postal      string  `json:"postal"`
	Org         string  `json:"org"`
	Error       bool    `json:"error"`
	Reason      string  `json:"reason"`
}
