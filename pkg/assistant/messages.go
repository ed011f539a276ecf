package assistant

import "strings"

// Message keys for the localized catalog.
const (
	msgCancelled    = "cancelled"
	msgSayYesOrNo   = "say_yes_or_no"
	msgNoSpeech     = "no_speech"
	msgNoTarget     = "no_target"
	msgErrorRetry   = "error_retry"
	msgListening    = "listening"
	msgDictated     = "dictated"
)

// catalog mirrors the backend's bilingual replies: Spanish for any
// lang with the "es" prefix, English otherwise.
var catalog = map[string][2]string{
	msgCancelled:  {"Cancelled.", "Cancelado."},
	msgSayYesOrNo: {"Please say yes or no.", "Por favor di sí o no."},
	msgNoSpeech:   {"No speech detected.", "No se detectó voz."},
	msgNoTarget:   {"No field selected for dictation.", "Ningún campo seleccionado para dictado."},
	msgErrorRetry: {"Something went wrong, please try again.", "Algo salió mal, inténtalo de nuevo."},
	msgListening:  {"Listening...", "Escuchando..."},
	msgDictated:   {"Text inserted.", "Texto insertado."},
}

// isSpanish reports whether a language tag selects the Spanish catalog.
func isSpanish(lang string) bool {
	return strings.HasPrefix(strings.ToLower(lang), "es")
}

// localize returns the catalog entry for key in the given language.
func localize(key, lang string) string {
	entry, ok := catalog[key]
	if !ok {
		return key
	}
	if isSpanish(lang) {
		return entry[1]
	}
	return entry[0]
}

// spanishMarkers are tokens common in the backend's Spanish commands.
var spanishMarkers = []string{
	"factura", "facturas", "reunión", "reuniones", "abrir", "abre",
	"hola", "gracias", "vencidas", "agenda", "tablero", "notificaciones",
	"cliente", "cuánto", "qué", "sí",
}

// DetectLanguage guesses between Spanish and English when the language
// preference is "auto". It looks for Spanish orthography and for the
// vocabulary the backend's command matcher understands; the default is
// English.
func DetectLanguage(text string) string {
	lower := strings.ToLower(text)
	if strings.ContainsAny(lower, "áéíóúñ¿¡") {
		return "es-ES"
	}
	for _, w := range strings.Fields(lower) {
		w = strings.Trim(w, ".,!?;:")
		for _, marker := range spanishMarkers {
			if w == marker {
				return "es-ES"
			}
		}
	}
	return "en-US"
}
