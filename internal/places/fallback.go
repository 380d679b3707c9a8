package places

type offsetPlace struct {
	name     string
	address  string
	rating   Rating
	distance string
	dLat     float64
	dLng     float64
	types    []string
	phone    string
}

var fallbackCatalogue = map[string][]offsetPlace{
	CategoryHospital: {
		{"City General Hospital", "Main Road, City Center", 4.2, "1.5 km", 0.01, 0.01, []string{"hospital", "health"}, "Emergency: 108"},
		{"District Medical Center", "Hospital Street", 4.0, "2.3 km", -0.015, 0.012, []string{"hospital", "health"}, "Emergency: 108"},
		{"Community Health Clinic", "Healthcare Avenue", 3.8, "3.1 km", 0.02, -0.01, []string{"hospital", "clinic"}, "Emergency: 108"},
	},
	CategoryPolice: {
		{"City Police Station", "Police Line Road", 4.5, "0.8 km", 0.008, -0.008, []string{"police"}, "Emergency: 100"},
		{"Traffic Police Post", "Highway Junction", 4.2, "1.9 km", -0.012, -0.015, []string{"police"}, "Emergency: 100"},
		{"Tourist Police Helpdesk", "Tourist Information Center", 4.7, "2.5 km", 0.018, 0.015, []string{"police", "tourist_assistance"}, "Tourist Helpline: 1363"},
	},
	CategoryTouristAttraction: {
		{"Local Heritage Museum", "Museum Road", 4.6, "1.2 km", 0.01, -0.01, []string{"museum", "tourist_attraction"}, NotAvailable},
		{"City Park & Gardens", "Green Belt Area", 4.4, "1.8 km", -0.01, 0.01, []string{"park", "tourist_attraction"}, NotAvailable},
	},
}

// SyntheticFallback returns a fixed catalogue of places offset from the
// given coordinate. Unknown categories yield an empty, non-nil slice.
func SyntheticFallback(lat, lon float64, category string) []Place {
	entries := fallbackCatalogue[category]
	out := make([]Place, 0, len(entries))
	for _, e := range entries {
		out = append(out, Place{
			Name:     e.name,
			Address:  e.address,
			Rating:   e.rating,
			Distance: e.distance,
			Location: LatLng{Lat: lat + e.dLat, Lng: lon + e.dLng},
			IsOpen:   true,
			Types:    append([]string(nil), e.types...),
			Phone:    e.phone,
		})
	}
	return out
}
