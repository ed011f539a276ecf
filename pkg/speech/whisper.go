package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/officevoice/go-officevoice/internal/httpc"
	"github.com/officevoice/go-officevoice/pkg/audioio"
)

const (
	providerWhisper   = "whisper"
	whisperBaseURL    = "https://api.openai.com/v1"
	whisperModel      = "whisper-1"
	whisperSampleRate = 16000
)

// Whisper implements Recognizer using an OpenAI-compatible audio
// transcription endpoint.
type Whisper struct {
	config    *Config
	client    *http.Client
	logger    *slog.Logger
	baseURL   string
	listening atomic.Bool
}

// NewWhisper creates a Whisper transcription recognizer.
func NewWhisper(opts ...Option) (*Whisper, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Source == nil {
		return nil, ErrNoSource
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = whisperBaseURL
	}

	return &Whisper{
		config:  cfg,
		client:  httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "speech.whisper"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// ListenOnce captures one utterance and transcribes it.
func (w *Whisper) ListenOnce(ctx context.Context) (*Utterance, error) {
	if !w.listening.CompareAndSwap(false, true) {
		return nil, ErrAlreadyListening
	}
	defer w.listening.Store(false)

	start := time.Now()

	samples, err := recordUtterance(ctx, w.config.Source, w.config)
	if err != nil {
		return nil, err
	}

	if rate := w.config.Source.Config().SampleRate; rate != whisperSampleRate {
		samples = audioio.Resample(samples, rate, whisperSampleRate)
	}

	body, contentType, err := w.buildForm(samples)
	if err != nil {
		return nil, WrapError(providerWhisper, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		w.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return nil, WrapError(providerWhisper, err)
	}
	req.Header.Set("Authorization", "Bearer "+w.config.APIKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, WrapError(providerWhisper, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &APIError{
			Provider:   providerWhisper,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(data)),
		}
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, WrapError(providerWhisper, fmt.Errorf("decode response: %w", err))
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return nil, ErrNoSpeech
	}

	w.logger.Debug("utterance transcribed",
		"chars", len(text),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &Utterance{Text: text, Lang: w.config.Language}, nil
}

// buildForm encodes the samples as a WAV multipart upload.
func (w *Whisper) buildForm(samples []int16) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", "utterance.wav")
	if err != nil {
		return nil, "", err
	}

	if err := writeWAVTo(part, samples, whisperSampleRate); err != nil {
		return nil, "", err
	}

	if err := mw.WriteField("model", whisperModel); err != nil {
		return nil, "", err
	}
	if lang := langPrefix(w.config.Language); lang != "" && lang != "auto" {
		if err := mw.WriteField("language", lang); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &buf, mw.FormDataContentType(), nil
}

// Verify Whisper implements Recognizer at compile time.
var _ Recognizer = (*Whisper)(nil)
