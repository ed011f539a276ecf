// Package speech voice presets for ElevenLabs.
package speech

// ElevenLabs model IDs.
const (
	// ModelMultilingualV2 handles English and Spanish with one model.
	ModelMultilingualV2 = "eleven_multilingual_v2"

	// ModelFlashV2_5 is the fastest multilingual model (~150ms latency).
	ModelFlashV2_5 = "eleven_flash_v2_5"

	// ModelTurboV2_5 is the fastest English-only model.
	ModelTurboV2_5 = "eleven_turbo_v2_5"
)

// DefaultVoices maps the assistant's supported languages to ElevenLabs
// voice IDs. The English voice is the platform default.
var DefaultVoices = []Voice{
	{ID: "EXAVITQu4vr4xnSDxMaL", Name: "sarah", Lang: "en-US", Default: true},
	{ID: "XB0fDUnXU5powFXDhCwa", Name: "charlotte", Lang: "en-GB"},
	{ID: "VR6AewLTigWG4xSOukaG", Name: "arnold", Lang: "es-ES"},
	{ID: "TxGEqnHWrfWFTfGW9XjX", Name: "josh", Lang: "es-MX"},
}
