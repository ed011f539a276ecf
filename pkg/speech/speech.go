// Package speech wraps speech-to-text and text-to-speech behind small
// interfaces so the conversational controller never touches a vendor API
// directly.
//
// Recognition is single-shot: one ListenOnce call captures one utterance
// and returns it. Synthesis goes through the Speaker, which guarantees at
// most one utterance is audible at a time and that completion callbacks
// fire exactly once.
//
// Example usage:
//
//	engine, _ := speech.NewElevenLabs(
//	    speech.WithAPIKey(os.Getenv("ELEVENLABS_API_KEY")),
//	)
//	speaker, _ := speech.NewSpeaker(engine, speech.NewExecPlayer(nil))
//	speaker.Speak("Opening invoices.", "en-US", func() {
//	    // playback finished
//	})
package speech

import (
	"context"
	"strings"
	"time"
)

// Utterance is one recognized speech result: raw text paired with the
// language tag active when it was recognized. Ephemeral.
type Utterance struct {
	// Text is the recognized transcript.
	Text string

	// Lang is the BCP-47 language tag the recognizer was configured for.
	Lang string

	// Confidence is the recognition confidence (0.0-1.0), if reported.
	Confidence float64
}

// Recognizer captures a single utterance from the user.
type Recognizer interface {
	// ListenOnce starts single-shot recognition and blocks until one
	// utterance is available or recognition ends without a result.
	//
	// Starting while a capture is already in flight returns
	// ErrAlreadyListening; callers should treat that as a no-op, not a
	// fatal condition. Ending without detecting speech returns
	// ErrNoSpeech.
	ListenOnce(ctx context.Context) (*Utterance, error)
}

// Voice describes one synthesis voice.
type Voice struct {
	// ID is the vendor voice identifier.
	ID string

	// Name is the human-readable voice name.
	Name string

	// Lang is the voice's BCP-47 language tag, e.g. "es-ES".
	Lang string

	// Default marks the platform default voice.
	Default bool
}

// SelectVoice binds a voice to a language tag: exact tag match first,
// then a voice whose language prefix matches, then the default voice,
// then the first voice. Returns false only when the list is empty.
func SelectVoice(voices []Voice, lang string) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}

	lang = strings.TrimSpace(lang)
	if lang != "" && lang != "auto" {
		for _, v := range voices {
			if strings.EqualFold(v.Lang, lang) {
				return v, true
			}
		}
		prefix := langPrefix(lang)
		for _, v := range voices {
			if strings.EqualFold(langPrefix(v.Lang), prefix) {
				return v, true
			}
		}
	}

	for _, v := range voices {
		if v.Default {
			return v, true
		}
	}
	return voices[0], true
}

// langPrefix returns the primary subtag of a BCP-47 tag ("es-ES" -> "es").
func langPrefix(lang string) string {
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		return lang[:i]
	}
	return lang
}

// Clip is a complete synthesized audio buffer.
type Clip struct {
	// Audio contains the encoded audio data.
	Audio []byte

	// Format is the audio container/codec (e.g. "mp3", "wav").
	Format string

	// Duration is the estimated playback duration.
	Duration time.Duration
}

// ClipStream is a streaming synthesis result. Chunks arrive on C as they
// are generated; the channel is closed when synthesis completes.
type ClipStream struct {
	// Format is the audio container/codec of the chunks.
	Format string

	// C delivers encoded audio chunks.
	C <-chan []byte
}

// Engine converts text to audio.
type Engine interface {
	// Synthesize converts text to a complete audio clip using the
	// given voice.
	Synthesize(ctx context.Context, text string, voice Voice) (*Clip, error)

	// Voices returns the voices this engine can speak with.
	Voices() []Voice

	// Name returns the engine name for logging.
	Name() string

	// Close releases any resources held by the engine.
	Close() error
}

// StreamingEngine is an Engine that can also stream audio as it is
// generated, for lower latency to first sound.
type StreamingEngine interface {
	Engine

	// SynthesizeStream converts text to a chunked audio stream.
	SynthesizeStream(ctx context.Context, text string, voice Voice) (*ClipStream, error)
}

// Player plays synthesized audio. Play blocks until playback finishes
// or the context is cancelled.
type Player interface {
	Play(ctx context.Context, clip *Clip) error
}

// StreamPlayer is a Player that can also play a chunked stream.
type StreamPlayer interface {
	Player

	PlayStream(ctx context.Context, stream *ClipStream) error
}
