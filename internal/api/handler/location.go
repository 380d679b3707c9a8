package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/safetrip/safetrip/internal/aggregator"
	"github.com/safetrip/safetrip/internal/api/middleware"
	"github.com/safetrip/safetrip/internal/api/models"
	"github.com/safetrip/safetrip/internal/api/response"
	"github.com/safetrip/safetrip/internal/location"
	"github.com/safetrip/safetrip/internal/places"
	"github.com/safetrip/safetrip/internal/saferoute"
	"github.com/safetrip/safetrip/internal/sos"
	"github.com/safetrip/safetrip/internal/weather"
)

// Envelope messages returned to the dashboard.
const (
	msgCoordinatesRequired = "Latitude and longitude are required"
	msgInvalidCoordinates  = "Latitude must be between -90 and 90 and longitude between -180 and 180"
	msgSOSLocationRequired = "Location data is required for SOS"
	msgLocationFailed      = "Failed to fetch location data"
	msgContextFailed       = "Failed to fetch context data"
	msgGPSContextFailed    = "Failed to fetch GPS context data"
	msgSOSFailed           = "Failed to process SOS request"
	msgSafeRoutesFailed    = "Failed to fetch safe routes"
)

// LocationResolver resolves a caller's IP to a location.
type LocationResolver interface {
	ResolveFromIP(ctx context.Context, ip string) (*location.Location, error)
}

// ContextBuilder assembles the full traveler context.
type ContextBuilder interface {
	BuildFromIP(ctx context.Context, ip string) (*aggregator.Context, error)
	BuildFromCoordinates(ctx context.Context, lat, lon float64) (*aggregator.Context, error)
}

// WeatherFetcher returns current conditions or nil.
type WeatherFetcher interface {
	FetchWeather(ctx context.Context, lat, lon float64) *weather.Reading
}

// PlacesFinder returns nearby places of a category.
type PlacesFinder interface {
	FetchNearby(ctx context.Context, lat, lon float64, category string) []places.Place
}

// SOSHandler acknowledges emergency requests.
type SOSHandler interface {
	Handle(ctx context.Context, req sos.Request) (*sos.Ack, error)
}

// RouteSuggester proposes safer destinations.
type RouteSuggester interface {
	Suggest(ctx context.Context, lat, lon float64) ([]saferoute.Route, error)
}

// LocationHandlerConfig holds the dependencies of LocationHandler.
type LocationHandlerConfig struct {
	Locations LocationResolver
	Contexts  ContextBuilder
	Weather   WeatherFetcher
	Places    PlacesFinder
	SOS       SOSHandler
	Routes    RouteSuggester
	Logger    zerolog.Logger
}

// LocationHandler serves the /api/location endpoints.
type LocationHandler struct {
	cfg LocationHandlerConfig
	log zerolog.Logger
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(cfg LocationHandlerConfig) *LocationHandler {
	return &LocationHandler{
		cfg: cfg,
		log: cfg.Logger.With().Str("component", "location_handler").Logger(),
	}
}

// GetLocation handles GET /api/location.
func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	ip := middleware.ClientIP(r)
	h.log.Debug().Str("ip", ip).Msg("resolving location")

	loc, err := h.cfg.Locations.ResolveFromIP(r.Context(), ip)
	if err != nil {
		h.fail(w, r, msgLocationFailed, err)
		return
	}
	response.OK(w, r, loc)
}

// GetContext handles GET /api/location/context.
func (h *LocationHandler) GetContext(w http.ResponseWriter, r *http.Request) {
	ip := middleware.ClientIP(r)
	h.log.Debug().Str("ip", ip).Msg("building context")

	c, err := h.cfg.Contexts.BuildFromIP(r.Context(), ip)
	if err != nil {
		h.fail(w, r, msgContextFailed, err)
		return
	}
	response.JSON(w, r, http.StatusOK, c)
}

// GetGPSContext handles POST /api/location/gps-context.
func (h *LocationHandler) GetGPSContext(w http.ResponseWriter, r *http.Request) {
	var req models.CoordinatesRequest
	if !h.decode(w, r, &req, msgCoordinatesRequired) {
		return
	}

	c, err := h.cfg.Contexts.BuildFromCoordinates(r.Context(), *req.Latitude, *req.Longitude)
	if err != nil {
		h.fail(w, r, msgGPSContextFailed, err)
		return
	}
	response.JSON(w, r, http.StatusOK, c)
}

// GetWeather handles POST /api/location/weather. data is null when the
// provider is unavailable.
func (h *LocationHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	var req models.LatLonRequest
	if !h.decode(w, r, &req, msgCoordinatesRequired) {
		return
	}

	response.OK(w, r, h.cfg.Weather.FetchWeather(r.Context(), *req.Lat, *req.Lon))
}

// GetNearby handles POST /api/location/nearby.
func (h *LocationHandler) GetNearby(w http.ResponseWriter, r *http.Request) {
	var req models.NearbyRequest
	if !h.decode(w, r, &req, msgCoordinatesRequired) {
		return
	}

	response.OK(w, r, h.cfg.Places.FetchNearby(r.Context(), *req.Lat, *req.Lon, req.Category()))
}

// HandleSOS handles POST /api/location/sos.
func (h *LocationHandler) HandleSOS(w http.ResponseWriter, r *http.Request) {
	var req models.SOSRequest
	if !h.decode(w, r, &req, msgSOSLocationRequired) {
		return
	}

	ack, err := h.cfg.SOS.Handle(r.Context(), sos.Request{
		Location: sos.Position{
			Latitude:  *req.Location.Latitude,
			Longitude: *req.Location.Longitude,
			Extra:     req.Location.Extra,
		},
		Timestamp: req.Timestamp,
		UserInfo:  req.UserInfo,
	})
	if err != nil {
		h.fail(w, r, msgSOSFailed, err)
		return
	}
	response.JSON(w, r, http.StatusOK, ack)
}

// GetSafeRoutes handles POST /api/location/safe-routes.
func (h *LocationHandler) GetSafeRoutes(w http.ResponseWriter, r *http.Request) {
	var req models.CoordinatesRequest
	if !h.decode(w, r, &req, msgCoordinatesRequired) {
		return
	}
	lat, lon := *req.Latitude, *req.Longitude

	routes, err := h.cfg.Routes.Suggest(r.Context(), lat, lon)
	if err != nil {
		h.fail(w, r, msgSafeRoutesFailed, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.SafeRoutesResponse{
		Success:         true,
		CurrentLocation: models.Position{Latitude: lat, Longitude: lon},
		Routes:          routes,
		Message:         saferoute.Message(routes),
	})
}

// decode writes a 400 and returns false when the body is malformed or invalid.
// missingMsg is used when the only problem is absent fields.
func (h *LocationHandler) decode(w http.ResponseWriter, r *http.Request, dst any, missingMsg string) bool {
	fieldErrs, err := decode(r, dst)
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return false
	}
	if len(fieldErrs) == 0 {
		return true
	}

	msg := msgInvalidCoordinates
	if onlyMissing(fieldErrs) {
		msg = missingMsg
	}
	response.BadRequest(w, r, msg, fieldErrs)
	return false
}

func (h *LocationHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	event := h.log.Error()
	if errors.Is(err, context.Canceled) {
		event = h.log.Warn()
	}
	event.Err(err).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("path", r.URL.Path).
		Msg(msg)
	response.Upstream(w, r, msg, err)
}
