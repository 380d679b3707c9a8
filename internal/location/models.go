// Package location resolves where a traveler is, either from the client IP
// address or from a GPS fix.
package location

import "errors"

// ErrUpstream is returned when the IP geolocation provider cannot resolve an address.
var ErrUpstream = errors.New("failed to fetch location data")

// Sentinel values used when a coordinate cannot be reverse geocoded.
const (
	UnknownPlace       = "Unknown"
	UnknownCountryCode = "XX"
)

// Location is a resolved traveler position.
type Location struct {
	IP           string  `json:"ip,omitempty"`
	City         string  `json:"city"`
	Region       string  `json:"region"`
	Country      string  `json:"country"`
	CountryCode  string  `json:"countryCode"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timezone     string  `json:"timezone"`
	Postal       string  `json:"postal,omitempty"`
	Organization string  `json:"organization,omitempty"`
}

// Address is the place a reverse geocoder found for a coordinate.
type Address struct {
	City        string
	Region      string
	Country     string
	CountryCode string
}

// DevelopmentLocation is returned for loopback clients so the dashboard can be
// exercised locally without a public IP.
func DevelopmentLocation(ip string) *Location {
	return &Location{
		IP:           ip,
		City:         "Colombo",
		Region:       "Western Province",
		Country:      "Sri Lanka",
		CountryCode:  "LK",
		Latitude:     6.9271,
		Longitude:    79.8612,
		Timezone:     "Asia/Colombo",
		Postal:       "00100",
		Organization: "Development Environment",
	}
}

// UnknownLocation returns the sentinel location for a coordinate that could
// not be reverse geocoded.
func UnknownLocation(lat, lon float64) *Location {
	return &Location{
		City:        UnknownPlace,
		Region:      UnknownPlace,
		Country:     UnknownPlace,
		CountryCode: UnknownCountryCode,
		Latitude:    lat,
		Longitude:   lon,
		Timezone:    UnknownPlace,
	}
}

// IsLoopback reports whether ip identifies the local machine.
func IsLoopback(ip string) bool {
	switch ip {
	case "::1", "127.0.0.1", "::ffff:127.0.0.1", "localhost":
		return true
	default:
		return false
	}
}
