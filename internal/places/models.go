// Package places finds emergency services and attractions near a traveler,
// falling back to a synthetic catalogue when no live data is available.
package places

import (
	"bytes"
	"encoding/json"
	"math"
)

// Categories understood by the synthetic fallback.
const (
	CategoryHospital          = "hospital"
	CategoryPolice            = "police"
	CategoryTouristAttraction = "tourist_attraction"
)

// SearchRadiusMeters is the nearby search radius.
const SearchRadiusMeters = 5000

// MaxResults caps the number of live results returned.
const MaxResults = 5

// NotAvailable is the placeholder for missing ratings and phone numbers.
const NotAvailable = "N/A"

// LatLng is a place position in the {lat,lng} shape the dashboard expects.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Rating is a place rating. The zero value means "no rating" and is
// encoded as "N/A".
type Rating float64

// MarshalJSON implements json.Marshaler.
func (r Rating) MarshalJSON() ([]byte, error) {
	if r == 0 {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rating) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) || bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Rating(f)
	return nil
}

// RoundRating rounds a provider rating to one decimal place.
func RoundRating(f float64) Rating {
	return Rating(math.Round(f*10) / 10)
}

// Place is a nearby point of interest.
type Place struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Rating   Rating   `json:"rating"`
	Distance string   `json:"distance"`
	Location LatLng   `json:"location"`
	IsOpen   bool     `json:"isOpen"`
	Types    []string `json:"types"`
	Phone    string   `json:"phone"`
}

// Result is a raw nearby search hit as reported by a provider.
type Result struct {
	Name     string
	Vicinity string
	Rating   float64
	Location LatLng
	// OpenNow is nil when the provider does not know opening hours.
	OpenNow *bool
	Types   []string
	Phone   string
}
