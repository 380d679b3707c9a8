package models

import (
	"encoding/json"

	"github.com/safetrip/safetrip/internal/places"
	"github.com/safetrip/safetrip/internal/saferoute"
)

// Coordinates are pointers so that an absent field can be told apart from 0.

// CoordinatesRequest is the body of gps-context and safe-routes.
type CoordinatesRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// LatLonRequest is the body of the weather endpoint.
type LatLonRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

// NearbyRequest is the body of the nearby endpoint. Type defaults to hospital.
type NearbyRequest struct {
	Lat  *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon  *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
	Type string   `json:"type" validate:"omitempty,max=64"`
}

// Category returns the requested place category.
func (r NearbyRequest) Category() string {
	if r.Type == "" {
		return places.CategoryHospital
	}
	return r.Type
}

// SOSRequest is the body of the SOS endpoint.
type SOSRequest struct {
	Location  *SOSLocation   `json:"location" validate:"required"`
	Timestamp string         `json:"timestamp" validate:"omitempty,max=64"`
	UserInfo  map[string]any `json:"userInfo"`
}

// SOSLocation is the caller's position at the time of the alert.
type SOSLocation struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`

	// Extra keeps the other fields the device sent (accuracy, altitude...).
	Extra map[string]any `json:"-"`
}

// UnmarshalJSON decodes the coordinate and collects every other field into Extra.
func (l *SOSLocation) UnmarshalJSON(data []byte) error {
	type fields SOSLocation
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	delete(all, "latitude")
	delete(all, "longitude")

	*l = SOSLocation(f)
	if len(all) > 0 {
		l.Extra = all
	}
	return nil
}

// Position is an echoed coordinate pair.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SafeRoutesResponse is returned by the safe-routes endpoint.
type SafeRoutesResponse struct {
	Success         bool              `json:"success"`
	CurrentLocation Position          `json:"currentLocation"`
	Routes          []saferoute.Route `json:"routes"`
	Message         string            `json:"message"`
}
