package assistant

import "strings"

// confirmVerdict classifies an utterance heard while a confirmation is
// pending.
type confirmVerdict int

const (
	confirmUnknown confirmVerdict = iota
	confirmYes
	confirmNo
)

// Fixed confirmation vocabulary, shared across the English and Spanish
// flows. Matching is case-insensitive on the whole trimmed utterance.
var (
	yesWords = map[string]bool{
		"yes": true, "y": true, "si": true, "sí": true,
		"ok": true, "okay": true, "confirm": true, "confirmar": true,
	}
	noWords = map[string]bool{
		"no": true, "n": true, "cancel": true, "cancelar": true,
	}
)

// classifyConfirmation maps an utterance to yes, no or unknown.
// Anything outside the vocabulary is unknown and must re-prompt,
// never proceed.
func classifyConfirmation(text string) confirmVerdict {
	word := strings.ToLower(strings.TrimSpace(text))
	word = strings.Trim(word, ".,!?")
	switch {
	case yesWords[word]:
		return confirmYes
	case noWords[word]:
		return confirmNo
	default:
		return confirmUnknown
	}
}

// confirmSuffix is appended verbatim to the stored command when the
// user confirms. The backend keys on this marker.
const confirmSuffix = " confirm=true"
