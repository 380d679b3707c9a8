package safety

import "strings"

const defaultNumber = "911"

var emergencyNumbers = map[string]EmergencyNumbers{
	"IN": {Police: "100", Ambulance: "108", TouristHelpline: "1363", Fire: "101"},
	"LK": {Police: defaultNumber, Ambulance: defaultNumber, TouristHelpline: "1912", Fire: defaultNumber},
	"JP": {Police: "110", Ambulance: "119", TouristHelpline: defaultNumber, Fire: "119"},
	"FR": {Police: "17", Ambulance: "15", TouristHelpline: defaultNumber, Fire: "18"},
}

// NumbersFor returns the emergency numbers for an ISO country code, or 911
// for every service when the country is not in the table.
func NumbersFor(countryCode string) EmergencyNumbers {
	if n, ok := emergencyNumbers[strings.ToUpper(countryCode)]; ok {
		return n
	}
	return EmergencyNumbers{
		Police:          defaultNumber,
		Ambulance:       defaultNumber,
		TouristHelpline: defaultNumber,
		Fire:            defaultNumber,
	}
}
