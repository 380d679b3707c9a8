package weather_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetrip/safetrip/internal/weather"
)

// mockProvider is a mock weather provider for testing.
type mockProvider struct {
	mu        sync.Mutex
	callCount int
	reading   *weather.Reading
	err       error
	delay     time.Duration
}

func (m *mockProvider) Name() string {
	return "mock"
}

func (m *mockProvider) CurrentWeather(ctx context.Context, _, _ float64) (*weather.Reading, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.reading, nil
}

func TestService_FetchWeather(t *testing.T) {
	provider := &mockProvider{
		reading: &weather.Reading{
			Temperature: 29.5,
			FeelsLike:   33.1,
			Humidity:    78,
			Description: "scattered clouds",
			Icon:        "03d",
			WindSpeed:   4.1,
			Pressure:    1009,
		},
	}

	svc := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	reading := svc.FetchWeather(context.Background(), 6.9271, 79.8612)
	require.NotNil(t, reading)
	assert.Equal(t, 29.5, reading.Temperature)
	assert.Equal(t, "scattered clouds", reading.Description)
	assert.Equal(t, 1, provider.callCount)
}

func TestService_FetchWeather_ProviderErrorReturnsNil(t *testing.T) {
	provider := &mockProvider{err: errors.New("401 unauthorized")}

	svc := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	assert.Nil(t, svc.FetchWeather(context.Background(), 6.9271, 79.8612))
	assert.Equal(t, 1, provider.callCount)
}

func TestService_FetchWeather_NoProvider(t *testing.T) {
	svc := weather.NewService(weather.ServiceConfig{Logger: zerolog.Nop()})

	assert.Nil(t, svc.FetchWeather(context.Background(), 0, 0))
}

func TestService_FetchWeather_InvalidCoordinates(t *testing.T) {
	provider := &mockProvider{reading: &weather.Reading{}}

	svc := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	assert.Nil(t, svc.FetchWeather(context.Background(), 91, 0))
	assert.Nil(t, svc.FetchWeather(context.Background(), 0, -181))
	assert.Equal(t, 0, provider.callCount, "provider should not be called for invalid coordinates")
}

func TestService_FetchWeather_CoordinateBounds(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		called   bool
	}{
		{name: "north pole", lat: 90, lon: 0, called: true},
		{name: "antimeridian", lat: 0, lon: -180, called: true},
		{name: "null island", lat: 0, lon: 0, called: true},
		{name: "past south pole", lat: -90.01, lon: 0},
		{name: "past antimeridian", lat: 0, lon: 180.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{reading: &weather.Reading{Temperature: 1}}
			svc := weather.NewService(weather.ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

			got := svc.FetchWeather(context.Background(), tt.lat, tt.lon)
			assert.Equal(t, tt.called, provider.callCount == 1)
			assert.Equal(t, tt.called, got != nil)
		})
	}
}

func TestService_FetchWeather_TimeoutReturnsNil(t *testing.T) {
	provider := &mockProvider{
		reading: &weather.Reading{Temperature: 20},
		delay:   time.Second,
	}

	svc := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		Timeout:  20 * time.Millisecond,
	})

	start := time.Now()
	assert.Nil(t, svc.FetchWeather(context.Background(), 10, 10))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
