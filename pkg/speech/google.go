package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	speechapi "google.golang.org/api/speech/v1"

	"github.com/officevoice/go-officevoice/pkg/audioio"
)

const (
	providerGoogle = "google"

	// googleSampleRate is what the Cloud Speech API expects for LINEAR16.
	googleSampleRate = 16000
)

// Google implements Recognizer using the Cloud Speech-to-Text REST API
// in synchronous single-utterance mode: one alternative, no interim
// results.
type Google struct {
	svc       *speechapi.Service
	config    *Config
	logger    *slog.Logger
	listening atomic.Bool
}

// NewGoogle creates a Cloud Speech recognizer.
// Requires an API key or a service-account credentials file, plus an
// audio source.
func NewGoogle(ctx context.Context, opts ...Option) (*Google, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.ValidateWithSource(); err != nil {
		return nil, err
	}

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, WrapError(providerGoogle, fmt.Errorf("read credentials: %w", err))
		}
		jwtCfg, err := google.JWTConfigFromJSON(data, speechapi.CloudPlatformScope)
		if err != nil {
			return nil, WrapError(providerGoogle, fmt.Errorf("parse credentials: %w", err))
		}
		clientOpts = append(clientOpts, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	} else {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.BaseURL))
	}

	svc, err := speechapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, WrapError(providerGoogle, fmt.Errorf("create service: %w", err))
	}

	return &Google{
		svc:    svc,
		config: cfg,
		logger: cfg.Logger.With("component", "speech.google"),
	}, nil
}

// ListenOnce captures one utterance and transcribes it.
func (g *Google) ListenOnce(ctx context.Context) (*Utterance, error) {
	if !g.listening.CompareAndSwap(false, true) {
		return nil, ErrAlreadyListening
	}
	defer g.listening.Store(false)

	start := time.Now()

	samples, err := recordUtterance(ctx, g.config.Source, g.config)
	if err != nil {
		return nil, err
	}

	if rate := g.config.Source.Config().SampleRate; rate != googleSampleRate {
		samples = audioio.Resample(samples, rate, googleSampleRate)
	}

	chunk := audioio.AudioChunk{Samples: samples, SampleRate: googleSampleRate, Channels: 1}
	content := base64.StdEncoding.EncodeToString(chunk.Bytes())

	lang := g.config.Language
	if lang == "" || lang == "auto" {
		lang = "en-US"
	}

	req := &speechapi.RecognizeRequest{
		Config: &speechapi.RecognitionConfig{
			Encoding:        "LINEAR16",
			SampleRateHertz: googleSampleRate,
			LanguageCode:    lang,
			MaxAlternatives: 1,
		},
		Audio: &speechapi.RecognitionAudio{Content: content},
	}

	resp, err := g.svc.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return nil, WrapError(providerGoogle, err)
	}

	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return nil, ErrNoSpeech
	}

	alt := resp.Results[0].Alternatives[0]
	if alt.Transcript == "" {
		return nil, ErrNoSpeech
	}

	g.logger.Debug("utterance recognized",
		"chars", len(alt.Transcript),
		"lang", lang,
		"confidence", alt.Confidence,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &Utterance{
		Text:       alt.Transcript,
		Lang:       lang,
		Confidence: alt.Confidence,
	}, nil
}

// Verify Google implements Recognizer at compile time.
var _ Recognizer = (*Google)(nil)
