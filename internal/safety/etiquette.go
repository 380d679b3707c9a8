package safety

import "strings"

var etiquette = map[string]string{
	"IN": "🙏 Remove shoes before entering temples or homes. Use your right hand for giving or receiving items.",
	"JP": "🎎 Bow when greeting. Avoid physical contact like handshakes.",
	"FR": "🇫🇷 Always greet with 'Bonjour'. Respect personal space.",
	"US": "🤝 Handshakes are common. Maintain eye contact during conversation.",
}

// EtiquetteFor returns the local etiquette tip for an ISO country code, or
// an empty string when none is known.
func EtiquetteFor(countryCode string) string {
	return etiquette[strings.ToUpper(countryCode)]
}
