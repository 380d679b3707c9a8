package sos

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetrip/safetrip/internal/places"
)

type fallbackPlaces struct{}

func (fallbackPlaces) FetchNearby(_ context.Context, lat, lon float64, category string) []places.Place {
	return places.SyntheticFallback(lat, lon, category)
}

type emptyPlaces struct{}

func (emptyPlaces) FetchNearby(context.Context, float64, float64, string) []places.Place {
	return []places.Place{}
}

var sosIDPattern = regexp.MustCompile(`^SOS-\d+$`)

func TestHandle(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	h := NewHandler(Config{
		Places: fallbackPlaces{},
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return now },
	})

	ack, err := h.Handle(context.Background(), Request{
		Location:  Position{Latitude: 6.9271, Longitude: 79.8612},
		Timestamp: "2026-05-01T10:00:00.000Z",
		UserInfo:  map[string]any{"city": "Colombo"},
	})
	require.NoError(t, err)

	assert.True(t, ack.Success)
	assert.False(t, ack.Dispatched)
	assert.Regexp(t, sosIDPattern, ack.SOSID)
	assert.Equal(t, "SOS-1777629600000", ack.SOSID)
	assert.Equal(t, "2026-05-01T10:00:00.000Z", ack.Timestamp)
	assert.Equal(t, 6.9271, ack.Location.Latitude)

	require.NotNil(t, ack.NearestEmergency.Hospital)
	require.NotNil(t, ack.NearestEmergency.Police)
	assert.Equal(t, "City General Hospital", ack.NearestEmergency.Hospital.Name)
	assert.Equal(t, "City Police Station", ack.NearestEmergency.Police.Name)
}

func TestHandle_NoPlaces(t *testing.T) {
	h := NewHandler(Config{Places: emptyPlaces{}, Logger: zerolog.Nop()})

	ack, err := h.Handle(context.Background(), Request{Location: Position{Latitude: 1, Longitude: 1}})
	require.NoError(t, err)

	assert.Nil(t, ack.NearestEmergency.Hospital)
	assert.Nil(t, ack.NearestEmergency.Police)
	assert.NotEmpty(t, ack.Timestamp)

	data, err := json.Marshal(ack)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nearestEmergency":{"hospital":null,"police":null}`)
	assert.Contains(t, string(data), `"dispatched":false`)
}

func TestHandle_CancelledContext(t *testing.T) {
	h := NewHandler(Config{Places: fallbackPlaces{}, Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Handle(ctx, Request{Location: Position{Latitude: 1, Longitude: 1}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandle_EchoesReportedLocation(t *testing.T) {
	h := NewHandler(Config{Places: emptyPlaces{}, Logger: zerolog.Nop()})

	ack, err := h.Handle(context.Background(), Request{Location: Position{
		Latitude:  6.9271,
		Longitude: 79.8612,
		Extra:     map[string]any{"accuracy": 12.5, "altitude": 4.0},
	}})
	require.NoError(t, err)

	data, err := json.Marshal(ack.Location)
	require.NoError(t, err)
	assert.JSONEq(t, `{"latitude":6.9271,"longitude":79.8612,"accuracy":12.5,"altitude":4}`, string(data))

	var back Position
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ack.Location, back)
}
