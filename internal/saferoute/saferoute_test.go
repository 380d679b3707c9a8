package saferoute

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetrip/safetrip/internal/places"
)

type stubPlaces map[string][]places.Place

func (s stubPlaces) FetchNearby(_ context.Context, _, _ float64, category string) []places.Place {
	return s[category]
}

func TestSuggest_Fallback(t *testing.T) {
	s := NewSuggester(stubPlaces{
		places.CategoryPolice:            places.SyntheticFallback(0, 0, places.CategoryPolice),
		places.CategoryTouristAttraction: places.SyntheticFallback(0, 0, places.CategoryTouristAttraction),
	})

	routes, err := s.Suggest(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, routes, 3)

	assert.Equal(t, Route{Destination: "City Police Station", Type: "Police Station", Distance: "0.8 km", Safety: "High", Icon: "🚔"}, routes[0])
	assert.Equal(t, Route{Destination: "Local Heritage Museum", Type: "Tourist Attraction", Distance: "1.2 km", Safety: "Moderate", Icon: "🏛️"}, routes[1])
	assert.Equal(t, "City Park & Gardens", routes[2].Destination)
	assert.Equal(t, MessageFound, Message(routes))
}

func TestSuggest_CapsAttractions(t *testing.T) {
	var attractions []places.Place
	for i := 0; i < 5; i++ {
		attractions = append(attractions, places.Place{Name: fmt.Sprintf("Sight %d", i), Distance: "1.0 km"})
	}
	s := NewSuggester(stubPlaces{places.CategoryTouristAttraction: attractions})

	routes, err := s.Suggest(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, routes, 3)
	for _, r := range routes {
		assert.Equal(t, "Tourist Attraction", r.Type)
	}
}

func TestSuggest_UnknownDistance(t *testing.T) {
	s := NewSuggester(stubPlaces{places.CategoryPolice: {{Name: "Kiosk"}}})

	routes, err := s.Suggest(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "Unknown", routes[0].Distance)
}

func TestSuggest_Empty(t *testing.T) {
	s := NewSuggester(stubPlaces{})

	routes, err := s.Suggest(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.NotNil(t, routes)
	assert.Empty(t, routes)
	assert.Equal(t, MessageNone, Message(routes))
}

type stubDirections struct {
	mu    sync.Mutex
	calls map[places.LatLng]int
	fail  map[places.LatLng]bool
}

func (d *stubDirections) WalkingSteps(_ context.Context, _, _, toLat, toLon float64) ([]string, error) {
	to := places.LatLng{Lat: toLat, Lng: toLon}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.calls == nil {
		d.calls = make(map[places.LatLng]int)
	}
	d.calls[to]++
	if d.fail[to] {
		return nil, errors.New("REQUEST_DENIED")
	}
	return []string{fmt.Sprintf("Walk to %.2f,%.2f", toLat, toLon)}, nil
}

func TestSuggest_WalkingSteps(t *testing.T) {
	station := places.LatLng{Lat: 6.91, Lng: 79.85}
	museum := places.LatLng{Lat: 6.92, Lng: 79.86}
	fort := places.LatLng{Lat: 6.93, Lng: 79.84}

	directions := &stubDirections{fail: map[places.LatLng]bool{fort: true}}
	s := NewSuggester(stubPlaces{
		places.CategoryPolice: {{Name: "Kollupitiya Police", Distance: "0.6 km", Location: station}},
		places.CategoryTouristAttraction: {
			{Name: "National Museum", Distance: "1.1 km", Location: museum},
			{Name: "Dutch Fort", Distance: "2.4 km", Location: fort},
		},
	}).WithDirections(directions, zerolog.Nop())

	routes, err := s.Suggest(context.Background(), 6.90, 79.85)
	require.NoError(t, err)
	require.Len(t, routes, 3)

	assert.Equal(t, []string{"Walk to 6.91,79.85"}, routes[0].Steps)
	assert.Equal(t, []string{"Walk to 6.92,79.86"}, routes[1].Steps)
	assert.Nil(t, routes[2].Steps, "failed lookup leaves the route without steps")
	assert.Len(t, directions.calls, 3)
}

func TestSuggest_NoDirectionsByDefault(t *testing.T) {
	s := NewSuggester(stubPlaces{places.CategoryPolice: {{Name: "Kiosk", Distance: "0.2 km"}}})

	routes, err := s.Suggest(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Nil(t, routes[0].Steps)
}
