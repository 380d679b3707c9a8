// Package main provides the entrypoint for the SafeTrip API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/safetrip/safetrip/internal/aggregator"
	"github.com/safetrip/safetrip/internal/api"
	"github.com/safetrip/safetrip/internal/api/handler"
	"github.com/safetrip/safetrip/internal/api/middleware"
	"github.com/safetrip/safetrip/internal/config"
	"github.com/safetrip/safetrip/internal/database"
	"github.com/safetrip/safetrip/internal/location"
	"github.com/safetrip/safetrip/internal/location/googlemaps"
	"github.com/safetrip/safetrip/internal/location/ipapi"
	"github.com/safetrip/safetrip/internal/places"
	"github.com/safetrip/safetrip/internal/places/googleplaces"
	"github.com/safetrip/safetrip/internal/provider/resilience"
	"github.com/safetrip/safetrip/internal/saferoute"
	"github.com/safetrip/safetrip/internal/sos"
	"github.com/safetrip/safetrip/internal/telemetry"
	"github.com/safetrip/safetrip/internal/traveler"
	"github.com/safetrip/safetrip/internal/weather"
	"github.com/safetrip/safetrip/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "safetrip-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SafeTrip API")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.IsDevelopment() {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
		SampleRatio:    cfg.TraceSampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.TelemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Float64("sample_ratio", cfg.TraceSampleRatio).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}
	providerMetrics, err := resilience.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	registry := resilience.NewRegistry()
	httpClient := func(name string) *resilience.Client {
		c := resilience.DefaultClientConfig(name)
		c.Timeout = cfg.OutboundTimeout
		c.Registry = registry
		c.Metrics = providerMetrics
		c.CircuitBreaker.OnStateChange = resilience.LogStateChanges(log)
		return resilience.NewClient(c)
	}

	var flags []string

	// Providers are only assigned to the interfaces when configured, so the
	// services see a true nil otherwise.
	locCfg := location.ServiceConfig{
		IPLocator: ipapi.NewClient(ipapi.ClientConfig{
			HTTPClient: httpClient(ipapi.ProviderName),
			Logger:     log,
		}),
		Logger:  log,
		Timeout: cfg.OutboundTimeout,
	}
	weatherCfg := weather.ServiceConfig{Logger: log, Timeout: cfg.OutboundTimeout}

	if cfg.OpenWeatherAPIKey != "" {
		owm := openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey:     cfg.OpenWeatherAPIKey,
			HTTPClient: httpClient(openweathermap.ProviderName),
			Logger:     log,
		})
		weatherCfg.Provider = owm
		locCfg.Primary = owm
	} else {
		log.Warn().Msg("OPENWEATHER_API_KEY not set - weather disabled")
		flags = append(flags, "weather:disabled")
	}

	var directions *googlemaps.Client
	if cfg.GoogleMapsAPIKey != "" {
		gm, gmErr := googlemaps.NewClient(googlemaps.ClientConfig{
			APIKey:     cfg.GoogleMapsAPIKey,
			HTTPClient: httpClient(googlemaps.ProviderName),
			Logger:     log,
		})
		if gmErr != nil {
			log.Fatal().Err(gmErr).Msg("failed to create Google Maps client")
		}
		locCfg.Secondary = gm
		directions = gm
	} else {
		flags = append(flags, "geocoding:no-secondary")
	}

	placesCfg := places.ServiceConfig{Logger: log, Timeout: cfg.OutboundTimeout}
	if googleplaces.Configured(cfg.GooglePlacesAPIKey) {
		gp, gpErr := googleplaces.NewClient(googleplaces.ClientConfig{
			APIKey:     cfg.GooglePlacesAPIKey,
			HTTPClient: httpClient(googleplaces.ProviderName),
			Logger:     log,
		})
		if gpErr != nil {
			log.Fatal().Err(gpErr).Msg("failed to create Google Places client")
		}
		placesCfg.Provider = gp
	} else {
		log.Warn().Msg("GOOGLE_PLACES_API_KEY not set - using synthetic places")
		flags = append(flags, "places:synthetic")
	}

	locations := location.NewService(locCfg)
	weatherService := weather.NewService(weatherCfg)
	placesService := places.NewService(placesCfg)

	contexts := aggregator.New(aggregator.Config{
		Locations: locations,
		Weather:   weatherService,
		Places:    placesService,
		Logger:    log,
	})
	sosHandler := sos.NewHandler(sos.Config{Places: placesService, Logger: log})
	routes := saferoute.NewSuggester(placesService)
	if directions != nil {
		routes.WithDirections(directions, log)
	}

	var store traveler.Store = traveler.NewInMemoryStore()
	var db handler.Pinger
	if cfg.DatabaseEnabled {
		pool, dbErr := database.Connect(ctx, cfg.Database, log)
		if dbErr != nil {
			log.Fatal().Err(dbErr).Msg("failed to connect to database")
		}
		defer pool.Close()

		pgStore := traveler.NewPostgresStore(pool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to prepare traveler schema")
		}
		store = pgStore
		db = pool
		log.Info().
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.Database).
			Msg("database connected")
	}
	travelers := traveler.NewService(store, log)

	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		Metrics:            metrics,
		RequireTLS:         cfg.RequireTLS,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Locations:          locations,
		Contexts:           contexts,
		Weather:            weatherService,
		Places:             placesService,
		SOS:                sosHandler,
		Routes:             routes,
		Travelers:          travelers,
		Database:           db,
		Providers:          registry,
		DegradationFlags:   flags,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Strs("degradation_flags", flags).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
