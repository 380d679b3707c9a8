package safety

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetrip/safetrip/internal/location"
	"github.com/safetrip/safetrip/internal/weather"
)

const noon = 12

func at(countryCode string) *location.Location {
	return &location.Location{CountryCode: countryCode}
}

func TestScore_Buckets(t *testing.T) {
	tests := []struct {
		countryCode string
		level       Level
		score       int
		color       string
		alert       string
		recs        int
	}{
		{"JP", LevelSafe, 85, "#10b981", "✅ This area is generally safe for tourists", 2},
		{"AE", LevelSafe, 85, "#10b981", "✅ This area is generally safe for tourists", 2},
		{"LK", LevelModerate, 65, "#f59e0b", "⚠️ Exercise normal precautions", 3},
		{"US", LevelModerate, 65, "#f59e0b", "⚠️ Exercise normal precautions", 3},
		{"BR", LevelCaution, 50, "#ef4444", "🚨 Exercise increased caution in this area", 3},
		{"XX", LevelCaution, 50, "#ef4444", "🚨 Exercise increased caution in this area", 3},
		{"", LevelCaution, 50, "#ef4444", "🚨 Exercise increased caution in this area", 3},
	}

	for _, tc := range tests {
		t.Run(tc.countryCode, func(t *testing.T) {
			v := Score(at(tc.countryCode), noon, nil)
			assert.Equal(t, tc.level, v.Level)
			assert.Equal(t, tc.score, v.Score)
			assert.Equal(t, tc.color, v.Color)
			assert.Equal(t, []string{tc.alert}, v.Alerts)
			require.Len(t, v.Recommendations, tc.recs+4)
			assert.Equal(t, "👮 Save tourist police helpline number", v.Recommendations[len(v.Recommendations)-1])
		})
	}
}

func TestScore_NightWindow(t *testing.T) {
	for _, hour := range []int{22, 23, 0, 3, 5} {
		v := Score(at("JP"), hour, nil)
		assert.Equal(t, 75, v.Score, "hour %d", hour)
		assert.Contains(t, v.Alerts, NightAlert, "hour %d", hour)
		require.Len(t, v.TouristAdvisories, 6, "hour %d", hour)
		assert.Equal(t, "Night Safety", v.TouristAdvisories[0].Type)
		assert.Equal(t, SeverityMedium, v.TouristAdvisories[0].Severity)
	}
}

func TestScore_MorningWindow(t *testing.T) {
	for _, hour := range []int{6, 7, 9} {
		v := Score(at("JP"), hour, nil)
		assert.Equal(t, 85, v.Score, "hour %d", hour)
		assert.NotContains(t, v.Alerts, NightAlert)
		require.Len(t, v.TouristAdvisories, 6)
		assert.Equal(t, "Morning Safety", v.TouristAdvisories[0].Type)
		assert.Equal(t, SeverityLow, v.TouristAdvisories[0].Severity)
	}
}

func TestScore_Daytime(t *testing.T) {
	for _, hour := range []int{10, 12, 21} {
		v := Score(at("JP"), hour, nil)
		require.Len(t, v.TouristAdvisories, 5)
		assert.Equal(t, "Tourist Scams", v.TouristAdvisories[0].Type)
		assert.Equal(t, SeverityHigh, v.TouristAdvisories[0].Severity)
		assert.Equal(t, "Connectivity", v.TouristAdvisories[4].Type)
	}
}

func TestScore_Weather(t *testing.T) {
	tests := []struct {
		name    string
		reading *weather.Reading
		score   int
		alerts  []string
	}{
		{
			name:    "mild",
			reading: &weather.Reading{Temperature: 22, Description: "clear sky"},
			score:   65,
			alerts:  []string{"⚠️ Exercise normal precautions"},
		},
		{
			name:    "heat",
			reading: &weather.Reading{Temperature: 36, Description: "clear sky"},
			score:   65,
			alerts:  []string{"⚠️ Exercise normal precautions", HeatAlert},
		},
		{
			name:    "exactly 35 is not heat",
			reading: &weather.Reading{Temperature: 35, Description: "haze"},
			score:   65,
			alerts:  []string{"⚠️ Exercise normal precautions"},
		},
		{
			name:    "cold",
			reading: &weather.Reading{Temperature: 2, Description: "few clouds"},
			score:   65,
			alerts:  []string{"⚠️ Exercise normal precautions", ColdAlert},
		},
		{
			name:    "rain",
			reading: &weather.Reading{Temperature: 28, Description: "light rain"},
			score:   55,
			alerts:  []string{"⚠️ Exercise normal precautions", "🌧️ Weather Alert: light rain"},
		},
		{
			name:    "capitalised thunderstorm",
			reading: &weather.Reading{Temperature: 28, Description: "Thunderstorm with heavy Rain"},
			score:   55,
			alerts:  []string{"⚠️ Exercise normal precautions", "🌧️ Weather Alert: Thunderstorm with heavy Rain"},
		},
		{
			name:    "cold and snow storm",
			reading: &weather.Reading{Temperature: -3, Description: "snow storm"},
			score:   55,
			alerts:  []string{"⚠️ Exercise normal precautions", ColdAlert, "🌧️ Weather Alert: snow storm"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := Score(at("LK"), noon, tc.reading)
			assert.Equal(t, tc.score, v.Score)
			assert.Equal(t, tc.alerts, v.Alerts)
		})
	}
}

func TestScore_NightAndRainStack(t *testing.T) {
	v := Score(at("BR"), 23, &weather.Reading{Temperature: 20, Description: "heavy intensity rain"})
	assert.Equal(t, 30, v.Score)
	assert.Equal(t, LevelCaution, v.Level)
}

func TestScore_NilLocation(t *testing.T) {
	v := Score(nil, noon, nil)
	assert.Equal(t, LevelCaution, v.Level)
	assert.Equal(t, NumbersFor(""), v.EmergencyNumbers)
}

func TestScore_DoesNotShareSlices(t *testing.T) {
	a := Score(at("JP"), noon, nil)
	a.Recommendations[0] = "changed"
	a.TouristAdvisories[0].Message = "changed"

	b := Score(at("JP"), noon, nil)
	assert.Equal(t, "Maintain basic safety awareness", b.Recommendations[0])
	assert.NotEqual(t, "changed", b.TouristAdvisories[0].Message)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(-5, 0, 100))
	assert.Equal(t, 100, clamp(120, 0, 100))
	assert.Equal(t, 42, clamp(42, 0, 100))
}

func TestNumbersFor(t *testing.T) {
	tests := []struct {
		countryCode string
		want        EmergencyNumbers
	}{
		{"IN", EmergencyNumbers{Police: "100", Ambulance: "108", TouristHelpline: "1363", Fire: "101"}},
		{"LK", EmergencyNumbers{Police: "911", Ambulance: "911", TouristHelpline: "1912", Fire: "911"}},
		{"JP", EmergencyNumbers{Police: "110", Ambulance: "119", TouristHelpline: "911", Fire: "119"}},
		{"FR", EmergencyNumbers{Police: "17", Ambulance: "15", TouristHelpline: "911", Fire: "18"}},
		{"DE", EmergencyNumbers{Police: "911", Ambulance: "911", TouristHelpline: "911", Fire: "911"}},
		{"in", EmergencyNumbers{Police: "100", Ambulance: "108", TouristHelpline: "1363", Fire: "101"}},
	}

	for _, tc := range tests {
		t.Run(tc.countryCode, func(t *testing.T) {
			assert.Equal(t, tc.want, NumbersFor(tc.countryCode))
		})
	}
}

func TestEtiquetteFor(t *testing.T) {
	tests := []struct {
		countryCode string
		prefix      string
	}{
		{"IN", "🙏 Remove shoes"},
		{"JP", "🎎 Bow when greeting"},
		{"FR", "🇫🇷 Always greet with 'Bonjour'"},
		{"US", "🤝 Handshakes are common"},
		{"jp", "🎎 Bow when greeting"},
		{"LK", ""},
		{"XX", ""},
	}

	for _, tc := range tests {
		t.Run(tc.countryCode, func(t *testing.T) {
			got := EtiquetteFor(tc.countryCode)
			if tc.prefix == "" {
				assert.Empty(t, got)
				return
			}
			assert.True(t, strings.HasPrefix(got, tc.prefix), got)
		})
	}
}

func TestScore_CarriesEtiquette(t *testing.T) {
	v := Score(&location.Location{CountryCode: "IN"}, 12, nil)
	assert.Equal(t, EtiquetteFor("IN"), v.Etiquette)

	v = Score(&location.Location{CountryCode: "DE"}, 12, nil)
	assert.Empty(t, v.Etiquette)
}
