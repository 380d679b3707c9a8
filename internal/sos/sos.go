// Package sos acknowledges emergency requests and points the traveler at
// the nearest hospital and police station.
//
// Nothing is dispatched: no SMS, push notification, authority alert or
// persistence happens here. Integrators must not treat an Ack as proof that
// anyone was notified.
package sos

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/safetrip/safetrip/internal/places"
)

// AckMessage is returned with every acknowledgement.
const AckMessage = "SOS received. Nearest emergency services listed below; no contacts or authorities were notified automatically"

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// PlacesFinder returns nearby places of a category. It never fails.
type PlacesFinder interface {
	FetchNearby(ctx context.Context, lat, lon float64, category string) []places.Place
}

// Position is the traveler's reported coordinate. Extra carries any other
// fields of the reported location and is echoed back beside the coordinate.
type Position struct {
	Latitude  float64
	Longitude float64
	Extra     map[string]any
}

// MarshalJSON flattens Extra next to latitude and longitude.
func (p Position) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+2)
	for k, v := range p.Extra {
		out[k] = v
	}
	out["latitude"] = p.Latitude
	out["longitude"] = p.Longitude
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (p *Position) UnmarshalJSON(data []byte) error {
	var coord struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.Unmarshal(data, &coord); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	delete(all, "latitude")
	delete(all, "longitude")

	*p = Position{Latitude: coord.Latitude, Longitude: coord.Longitude}
	if len(all) > 0 {
		p.Extra = all
	}
	return nil
}

// Request is an SOS trigger from the dashboard.
type Request struct {
	Location  Position
	Timestamp string
	UserInfo  map[string]any
}

// NearestEmergency holds the closest hospital and police station, if any.
type NearestEmergency struct {
	Hospital *places.Place `json:"hospital"`
	Police   *places.Place `json:"police"`
}

// Ack acknowledges an SOS request.
type Ack struct {
	Success          bool             `json:"success"`
	Message          string           `json:"message"`
	SOSID            string           `json:"sosId"`
	Dispatched       bool             `json:"dispatched"`
	Location         Position         `json:"location"`
	NearestEmergency NearestEmergency `json:"nearestEmergency"`
	Timestamp        string           `json:"timestamp"`
}

// Config holds the dependencies of the handler.
type Config struct {
	Places PlacesFinder
	Logger zerolog.Logger

	// Now returns the current time (default: time.Now).
	Now func() time.Time
}

// Handler processes SOS requests.
type Handler struct {
	places PlacesFinder
	logger zerolog.Logger
	now    func() time.Time
}

// NewHandler creates a new SOS handler.
func NewHandler(cfg Config) *Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{places: cfg.Places, logger: cfg.Logger, now: now}
}

// Handle logs the SOS event and looks up the nearest emergency services.
func (h *Handler) Handle(ctx context.Context, req Request) (*Ack, error) {
	now := h.now()
	id := fmt.Sprintf("SOS-%d", now.UnixMilli())

	h.logger.Warn().
		Str("sos_id", id).
		Float64("lat", req.Location.Latitude).
		Float64("lon", req.Location.Longitude).
		Str("client_timestamp", req.Timestamp).
		Interface("user_info", req.UserInfo).
		Msg("SOS triggered")

	var hospitals, police []places.Place
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hospitals = h.places.FetchNearby(gctx, req.Location.Latitude, req.Location.Longitude, places.CategoryHospital)
		return ctx.Err()
	})
	g.Go(func() error {
		police = h.places.FetchNearby(gctx, req.Location.Latitude, req.Location.Longitude, places.CategoryPolice)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("looking up emergency services: %w", err)
	}

	ts := req.Timestamp
	if ts == "" {
		ts = now.UTC().Format(timestampLayout)
	}

	return &Ack{
		Success:    true,
		Message:    AckMessage,
		SOSID:      id,
		Dispatched: false,
		Location:   req.Location,
		NearestEmergency: NearestEmergency{
			Hospital: first(hospitals),
			Police:   first(police),
		},
		Timestamp: ts,
	}, nil
}

func first(ps []places.Place) *places.Place {
	if len(ps) == 0 {
		return nil
	}
	p := ps[0]
	return &p
}
