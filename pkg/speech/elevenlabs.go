package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/officevoice/go-officevoice/internal/httpc"
)

const (
	elevenLabsBaseURL  = "https://api.elevenlabs.io/v1"
	providerElevenLabs = "elevenlabs"
)

// ElevenLabs implements Engine for ElevenLabs TTS.
type ElevenLabs struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
	voices  []Voice
}

// NewElevenLabs creates a new ElevenLabs synthesis engine.
func NewElevenLabs(opts ...Option) (*ElevenLabs, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = elevenLabsBaseURL
	}

	voices := cfg.Voices
	if len(voices) == 0 {
		voices = DefaultVoices
	}

	return &ElevenLabs{
		config:  cfg,
		client:  httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "speech.elevenlabs"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		voices:  voices,
	}, nil
}

// synthesisRequest is the JSON body for the text-to-speech endpoint.
type synthesisRequest struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings map[string]any `json:"voice_settings,omitempty"`
}

// Synthesize converts text to a complete MP3 clip.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string, voice Voice) (*Clip, error) {
	start := time.Now()

	url := fmt.Sprintf("%s/text-to-speech/%s", e.baseURL, voice.ID)

	body, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: e.config.ModelID,
		VoiceSettings: map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	})
	if err != nil {
		return nil, WrapError(providerElevenLabs, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerElevenLabs, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("xi-api-key", e.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, WrapError(providerElevenLabs, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, e.parseError(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(providerElevenLabs, fmt.Errorf("read response: %w", err))
	}

	e.logger.Debug("synthesized audio",
		"chars", len(text),
		"bytes", len(audio),
		"voice", voice.Name,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &Clip{
		Audio:    audio,
		Format:   "mp3",
		Duration: estimateSpeechDuration(text),
	}, nil
}

// Voices returns the configured voice table.
func (e *ElevenLabs) Voices() []Voice {
	return e.voices
}

// Name returns the engine name.
func (e *ElevenLabs) Name() string {
	return providerElevenLabs
}

// Close releases resources. The HTTP engine holds none.
func (e *ElevenLabs) Close() error {
	return nil
}

// parseError converts a non-success response into an *APIError.
func (e *ElevenLabs) parseError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

	var apiResp struct {
		Detail struct {
			Message string `json:"message"`
		} `json:"detail"`
	}
	msg := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &apiResp); err == nil && apiResp.Detail.Message != "" {
		msg = apiResp.Detail.Message
	}

	return &APIError{
		Provider:   providerElevenLabs,
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}

// estimateSpeechDuration approximates playback time at natural speech
// pacing (~60ms per character).
func estimateSpeechDuration(text string) time.Duration {
	return time.Duration(len(text)) * 60 * time.Millisecond
}

// Verify ElevenLabs implements Engine at compile time.
var _ Engine = (*ElevenLabs)(nil)
