// Package weather fetches current conditions for a coordinate. A missing
// reading is a normal outcome: callers receive nil and carry on.
package weather

import "errors"

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Reading is the current weather at a point, in metric units.
type Reading struct {
	// Temperature in Celsius
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`

	// Humidity percentage (0-100)
	Humidity float64 `json:"humidity"`

	Description string `json:"description"`
	Icon        string `json:"icon"`

	// WindSpeed in m/s
	WindSpeed float64 `json:"windSpeed"`

	// Pressure in hPa
	Pressure float64 `json:"pressure"`
}
