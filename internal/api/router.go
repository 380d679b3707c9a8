// Package api provides the HTTP API for SafeTrip.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/safetrip/safetrip/internal/api/handler"
	"github.com/safetrip/safetrip/internal/api/middleware"
	"github.com/safetrip/safetrip/internal/api/models"
	"github.com/safetrip/safetrip/internal/api/response"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// RequireTLS rejects plain-HTTP requests forwarded by the load balancer.
	RequireTLS bool

	// CORSAllowedOrigins lists the dashboard origins allowed to call the API.
	CORSAllowedOrigins []string

	Locations handler.LocationResolver
	Contexts  handler.ContextBuilder
	Weather   handler.WeatherFetcher
	Places    handler.PlacesFinder
	SOS       handler.SOSHandler
	Routes    handler.RouteSuggester
	Travelers handler.TravelerService

	// Database is nil when travelers are kept in memory.
	Database         handler.Pinger
	Providers        handler.ProviderRegistry
	DegradationFlags []string
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "safetrip-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))
	r.Use(middleware.ContentTypeJSON)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, models.NewProblem(models.ProblemTypeMethodNotAllowed, "Method not allowed",
			http.StatusMethodNotAllowed, middleware.GetRequestID(r.Context())).
			WithDetail(r.Method+" is not supported on "+r.URL.Path))
	})

	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:          cfg.Version,
		BuildTime:        cfg.BuildTime,
		Database:         cfg.Database,
		Providers:        cfg.Providers,
		DegradationFlags: cfg.DegradationFlags,
	})
	locationHandler := handler.NewLocationHandler(handler.LocationHandlerConfig{
		Locations: cfg.Locations,
		Contexts:  cfg.Contexts,
		Weather:   cfg.Weather,
		Places:    cfg.Places,
		SOS:       cfg.SOS,
		Routes:    cfg.Routes,
		Logger:    cfg.Logger,
	})
	travelerHandler := handler.NewTravelerHandler(cfg.Travelers)

	registrationRateLimit := middleware.RateLimitByIP(middleware.RegistrationRateLimit) // 10 req/min
	contextRateLimit := middleware.RateLimitByIP(middleware.ContextRateLimit)           // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)         // 100 req/min

	r.Route("/api", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.With(standardRateLimit).Get("/status", opsHandler.SystemStatus)
		})

		r.Route("/location", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", locationHandler.GetLocation)
			// context endpoints fan out to three or more providers per call
			r.With(contextRateLimit).Get("/context", locationHandler.GetContext)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireJSON)
				r.With(contextRateLimit).Post("/gps-context", locationHandler.GetGPSContext)
				r.With(contextRateLimit).Post("/safe-routes", locationHandler.GetSafeRoutes)
				r.With(standardRateLimit).Post("/weather", locationHandler.GetWeather)
				r.With(standardRateLimit).Post("/nearby", locationHandler.GetNearby)
				r.With(standardRateLimit).Post("/sos", locationHandler.HandleSOS)
			})
		})

		r.Route("/travelers", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", travelerHandler.Get)
			r.With(registrationRateLimit, middleware.RequireJSON).Post("/", travelerHandler.Create)
		})
	})

	return r
}
