package location

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLocator struct {
	loc   *Location
	err   error
	calls int
}

func (m *mockLocator) LocateIP(_ context.Context, _ string) (*Location, error) {
	m.calls++
	return m.loc, m.err
}

func (m *mockLocator) Name() string { return "mock-ip" }

type mockGeocoder struct {
	name  string
	addr  *Address
	err   error
	calls int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (*Address, error) {
	m.calls++
	return m.addr, m.err
}

func (m *mockGeocoder) Name() string { return m.name }

func TestResolveFromIP_Loopback(t *testing.T) {
	locator := &mockLocator{}
	svc := NewService(ServiceConfig{IPLocator: locator, Logger: zerolog.Nop()})

	for _, ip := range []string{"::1", "127.0.0.1", "::ffff:127.0.0.1", "localhost"} {
		t.Run(ip, func(t *testing.T) {
			loc, err := svc.ResolveFromIP(context.Background(), ip)
			require.NoError(t, err)
			assert.Equal(t, ip, loc.IP)
			assert.Equal(t, "Colombo", loc.City)
			assert.Equal(t, "LK", loc.CountryCode)
			assert.Equal(t, "Asia/Colombo", loc.Timezone)
			assert.Equal(t, 6.9271, loc.Latitude)
			assert.Equal(t, 79.8612, loc.Longitude)
		})
	}
	assert.Zero(t, locator.calls)
}

func TestResolveFromIP_Upstream(t *testing.T) {
	want := &Location{
		IP: "1.2.3.4", City: "Tokyo", Region: "Tokyo", Country: "Japan", CountryCode: "JP",
		Latitude: 35.68, Longitude: 139.69, Timezone: "Asia/Tokyo",
	}
	svc := NewService(ServiceConfig{IPLocator: &mockLocator{loc: want}, Logger: zerolog.Nop()})

	loc, err := svc.ResolveFromIP(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, want, loc)
}

func TestResolveFromIP_PartialLookupGetsPlaceholders(t *testing.T) {
	partial := &Location{IP: "203.0.113.9", Latitude: 1.5, Longitude: 2.5}
	svc := NewService(ServiceConfig{IPLocator: &mockLocator{loc: partial}, Logger: zerolog.Nop()})

	loc, err := svc.ResolveFromIP(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, &Location{
		IP:          "203.0.113.9",
		City:        UnknownPlace,
		Region:      UnknownPlace,
		Country:     UnknownPlace,
		CountryCode: UnknownCountryCode,
		Latitude:    1.5,
		Longitude:   2.5,
		Timezone:    UnknownPlace,
	}, loc)
	assert.Empty(t, partial.City, "provider value left untouched")
}

func TestResolveFromIP_UpstreamFailure(t *testing.T) {
	svc := NewService(ServiceConfig{
		IPLocator: &mockLocator{err: errors.New("connection refused")},
		Logger:    zerolog.Nop(),
	})

	_, err := svc.ResolveFromIP(context.Background(), "1.2.3.4")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, "failed to fetch location data", err.Error())
}

func TestResolveFromIP_NoLocator(t *testing.T) {
	svc := NewService(ServiceConfig{Logger: zerolog.Nop()})

	_, err := svc.ResolveFromIP(context.Background(), "1.2.3.4")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestResolveFromCoordinates_Primary(t *testing.T) {
	primary := &mockGeocoder{name: "primary", addr: &Address{City: "Tokyo", Region: "Tokyo", Country: "JP", CountryCode: "JP"}}
	secondary := &mockGeocoder{name: "secondary"}
	svc := NewService(ServiceConfig{Primary: primary, Secondary: secondary, Logger: zerolog.Nop()})

	loc := svc.ResolveFromCoordinates(context.Background(), 35.68, 139.69)
	assert.Equal(t, "Tokyo", loc.City)
	assert.Equal(t, "JP", loc.CountryCode)
	assert.Equal(t, 35.68, loc.Latitude)
	assert.Equal(t, 139.69, loc.Longitude)
	assert.Equal(t, "Unknown", loc.Timezone)
	assert.Zero(t, secondary.calls)
}

func TestResolveFromCoordinates_SecondaryOnError(t *testing.T) {
	primary := &mockGeocoder{name: "primary", err: errors.New("401")}
	secondary := &mockGeocoder{name: "secondary", addr: &Address{City: "Paris", Region: "Île-de-France", Country: "France", CountryCode: "FR"}}
	svc := NewService(ServiceConfig{Primary: primary, Secondary: secondary, Logger: zerolog.Nop()})

	loc := svc.ResolveFromCoordinates(context.Background(), 48.85, 2.29)
	assert.Equal(t, "Paris", loc.City)
	assert.Equal(t, "France", loc.Country)
	assert.Equal(t, "FR", loc.CountryCode)
	assert.Equal(t, 1, primary.calls)
}

func TestResolveFromCoordinates_SecondaryOnEmpty(t *testing.T) {
	primary := &mockGeocoder{name: "primary"}
	secondary := &mockGeocoder{name: "secondary", addr: &Address{City: "Kandy", CountryCode: "LK"}}
	svc := NewService(ServiceConfig{Primary: primary, Secondary: secondary, Logger: zerolog.Nop()})

	loc := svc.ResolveFromCoordinates(context.Background(), 7.29, 80.63)
	assert.Equal(t, "Kandy", loc.City)
	assert.Equal(t, "Unknown", loc.Region)
	assert.Equal(t, "LK", loc.CountryCode)
}

func TestResolveFromCoordinates_AllFail(t *testing.T) {
	svc := NewService(ServiceConfig{
		Primary:   &mockGeocoder{name: "primary", err: errors.New("down")},
		Secondary: &mockGeocoder{name: "secondary", err: errors.New("down")},
		Logger:    zerolog.Nop(),
	})

	loc := svc.ResolveFromCoordinates(context.Background(), 0, 0)
	assert.Equal(t, UnknownLocation(0, 0), loc)
	assert.Equal(t, "XX", loc.CountryCode)
}

func TestResolveFromCoordinates_NoGeocoders(t *testing.T) {
	svc := NewService(ServiceConfig{Logger: zerolog.Nop()})

	loc := svc.ResolveFromCoordinates(context.Background(), 10, 20)
	assert.Equal(t, "Unknown", loc.City)
	assert.Equal(t, 10.0, loc.Latitude)
}

func TestIsLoopback(t *testing.T) {
	assert.True(t, IsLoopback("::1"))
	assert.True(t, IsLoopback("::ffff:127.0.0.1"))
	assert.False(t, IsLoopback("8.8.8.8"))
	assert.False(t, IsLoopback(""))
}
