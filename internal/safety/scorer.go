// Package safety computes a heuristic safety verdict for a traveler's
// position. Everything here is pure; callers supply the hour and weather.
package safety

import (
	"strings"

	"github.com/safetrip/safetrip/internal/location"
	"github.com/safetrip/safetrip/internal/weather"
)

// Level is a coarse safety classification.
type Level string

// Safety levels.
const (
	LevelSafe     Level = "safe"
	LevelModerate Level = "moderate"
	LevelCaution  Level = "caution"
)

// Severity ranks a tourist advisory.
type Severity string

// Advisory severities.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Advisory is a tourism specific warning.
type Advisory struct {
	Icon     string   `json:"icon"`
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// EmergencyNumbers are the local phone numbers for emergency services.
type EmergencyNumbers struct {
	Police          string `json:"police"`
	Ambulance       string `json:"ambulance"`
	TouristHelpline string `json:"touristHelpline"`
	Fire            string `json:"fire"`
}

// Verdict is the outcome of scoring a location.
type Verdict struct {
	Level             Level            `json:"level"`
	Score             int              `json:"score"`
	Color             string           `json:"color"`
	Alerts            []string         `json:"alerts"`
	Recommendations   []string         `json:"recommendations"`
	TouristAdvisories []Advisory       `json:"touristAdvisories"`
	EmergencyNumbers  EmergencyNumbers `json:"emergencyNumbers"`
	Etiquette         string           `json:"etiquette,omitempty"`
}

const (
	nightPenalty   = 10
	weatherPenalty = 10
	heatThreshold  = 35.0
	coldThreshold  = 5.0
)

type bucket struct {
	level           Level
	score           int
	color           string
	alert           string
	recommendations []string
}

var (
	safeBucket = bucket{
		level: LevelSafe,
		score: 85,
		color: "#10b981",
		alert: "✅ This area is generally safe for tourists",
		recommendations: []string{
			"Maintain basic safety awareness",
			"Keep emergency contacts saved",
		},
	}
	moderateBucket = bucket{
		level: LevelModerate,
		score: 65,
		color: "#f59e0b",
		alert: "⚠️ Exercise normal precautions",
		recommendations: []string{
			"Stay aware of your surroundings",
			"Keep valuables secured",
			"Avoid displaying expensive items",
		},
	}
	cautionBucket = bucket{
		level: LevelCaution,
		score: 50,
		color: "#ef4444",
		alert: "🚨 Exercise increased caution in this area",
		recommendations: []string{
			"Stay in well-populated, tourist-friendly areas",
			"Avoid traveling alone at night",
			"Keep emergency contacts readily accessible",
		},
	}
)

var countryBuckets = map[string]*bucket{}

func init() {
	for _, cc := range []string{"JP", "SG", "CH", "NO", "FI", "DK", "IS", "NZ", "CA", "AU", "AE"} {
		countryBuckets[cc] = &safeBucket
	}
	for _, cc := range []string{"US", "GB", "FR", "DE", "IT", "ES", "KR", "IN", "TH", "MY", "LK"} {
		countryBuckets[cc] = &moderateBucket
	}
}

var (
	nightAdvisory = Advisory{
		Icon:     "🌙",
		Type:     "Night Safety",
		Message:  "Avoid poorly lit areas and always use registered taxis/ride-sharing",
		Severity: SeverityMedium,
	}
	morningAdvisory = Advisory{
		Icon:     "🌅",
		Type:     "Morning Safety",
		Message:  "Morning is generally safe. Watch for pickpockets in crowded markets",
		Severity: SeverityLow,
	}
	commonAdvisories = []Advisory{
		{Icon: "💰", Type: "Tourist Scams", Message: "Beware of overcharging, fake guides, and taxi scams. Always agree on prices beforehand", Severity: SeverityHigh},
		{Icon: "👜", Type: "Pickpocketing", Message: "Keep bags secure and close. Avoid carrying passport unnecessarily", Severity: SeverityMedium},
		{Icon: "🚕", Type: "Transportation", Message: "Use official taxis or verified ride-sharing apps. Avoid unlicensed vehicles", Severity: SeverityMedium},
		{Icon: "💳", Type: "Payment Safety", Message: "Use credit cards when possible. Keep cash in multiple locations", Severity: SeverityLow},
		{Icon: "📱", Type: "Connectivity", Message: "Save offline maps. Keep phone charged and have local emergency numbers", Severity: SeverityLow},
	}
	generalRecommendations = []string{
		"📍 Share your live location with trusted contacts",
		"🏨 Keep hotel/accommodation address in local language",
		"💊 Know the location of nearest hospital",
		"👮 Save tourist police helpline number",
	}
)

// Alert texts.
const (
	NightAlert        = "🌙 Late Night: Extra caution advised"
	HeatAlert         = "⚠️ Extreme heat warning. Stay hydrated and seek shade."
	ColdAlert         = "❄️ Cold weather alert. Dress warmly."
	WeatherAlertLabel = "🌧️ Weather Alert: "
)

// Score computes the verdict for a location at a local hour (0-23) with
// optional current weather.
func Score(loc *location.Location, hour int, w *weather.Reading) Verdict {
	var countryCode string
	if loc != nil {
		countryCode = loc.CountryCode
	}

	b := countryBuckets[strings.ToUpper(countryCode)]
	if b == nil {
		b = &cautionBucket
	}

	v := Verdict{
		Level:             b.level,
		Color:             b.color,
		Alerts:            []string{b.alert},
		Recommendations:   append([]string(nil), b.recommendations...),
		TouristAdvisories: []Advisory{},
		EmergencyNumbers:  NumbersFor(countryCode),
		Etiquette:         EtiquetteFor(countryCode),
	}
	score := b.score

	if IsNight(hour) {
		v.Alerts = append(v.Alerts, NightAlert)
		score -= nightPenalty
		v.TouristAdvisories = append(v.TouristAdvisories, nightAdvisory)
	}
	if IsMorning(hour) {
		v.TouristAdvisories = append(v.TouristAdvisories, morningAdvisory)
	}

	v.TouristAdvisories = append(v.TouristAdvisories, commonAdvisories...)
	v.Recommendations = append(v.Recommendations, generalRecommendations...)

	if w != nil {
		if w.Temperature > heatThreshold {
			v.Alerts = append(v.Alerts, HeatAlert)
		}
		if w.Temperature < coldThreshold {
			v.Alerts = append(v.Alerts, ColdAlert)
		}
		if isWet(w.Description) {
			v.Alerts = append(v.Alerts, WeatherAlertLabel+w.Description)
			score -= weatherPenalty
		}
	}

	v.Score = clamp(score, 0, 100)
	return v
}

// IsNight reports whether hour falls in the late night window (22:00-05:59).
func IsNight(hour int) bool {
	return hour >= 22 || hour <= 5
}

// IsMorning reports whether hour falls in the morning window (06:00-09:59).
func IsMorning(hour int) bool {
	return hour >= 6 && hour <= 9
}

func isWet(description string) bool {
	d := strings.ToLower(description)
	return strings.Contains(d, "rain") || strings.Contains(d, "storm")
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
