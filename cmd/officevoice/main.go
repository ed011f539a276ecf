// OfficeVoice - voice assistant client for the office/invoicing backend.
// Captures spoken commands, drives question/confirmation dialogs against
// the backend, routes dictation into invoice fields, and exposes a web
// control surface with a live status stream.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/officevoice/go-officevoice/internal/config"
	"github.com/officevoice/go-officevoice/internal/log"
	"github.com/officevoice/go-officevoice/pkg/assistant"
	"github.com/officevoice/go-officevoice/pkg/audioio"
	"github.com/officevoice/go-officevoice/pkg/command"
	"github.com/officevoice/go-officevoice/pkg/dictation"
	"github.com/officevoice/go-officevoice/pkg/forms"
	"github.com/officevoice/go-officevoice/pkg/prefs"
	"github.com/officevoice/go-officevoice/pkg/speech"
	"github.com/officevoice/go-officevoice/pkg/web"
)

func main() {
	// .env is optional; real env vars win.
	godotenv.Load()

	var (
		port      = flag.String("port", config.Env("PORT", "8090"), "control surface port")
		serverURL = flag.String("server-url", "", "backend base URL (overrides OFFICE_SERVER_URL)")
		sttFlag   = flag.String("stt", config.Env("STT_PROVIDER", "auto"), "speech-to-text: google, whisper, auto, off")
		ttsFlag   = flag.String("tts", config.Env("TTS_PROVIDER", "auto"), "text-to-speech: elevenlabs, auto, off")
		langFlag  = flag.String("lang", "", "override the persisted language preference")
		prefsPath = flag.String("prefs", "", "preferences file path (default ~/.officevoice/prefs.json)")
		debug     = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	log.Init(level)
	logger := log.L()

	baseURL := *serverURL
	if baseURL == "" {
		baseURL = config.ServerURLRequired()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Backend client + capability probe.
	client, err := command.NewClient(
		command.WithBaseURL(baseURL),
		command.WithAuthToken(config.Env("OFFICE_AUTH_TOKEN", "")),
		command.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backend client: %v\n", err)
		os.Exit(1)
	}

	probeCtx, probeCancel := context.WithTimeout(ctx, 5*time.Second)
	if status, err := client.Probe(probeCtx); err != nil {
		logger.Warn("backend status probe failed", "error", err)
	} else {
		logger.Info("backend reachable", "interpreter", status.InterpreterEnabled)
	}
	probeCancel()

	// Preferences.
	var store prefs.Store
	if *prefsPath != "" {
		store, err = prefs.NewJSONStore(*prefsPath)
	} else {
		store, err = prefs.NewDefaultStore()
	}
	if err != nil {
		logger.Warn("preference store unavailable, running in-memory", "error", err)
		store = prefs.NewMemoryStore()
	}
	if *langFlag != "" {
		if err := store.SetLanguage(*langFlag); err != nil {
			logger.Warn("failed to persist language", "error", err)
		}
	}
	saved, _ := store.Load()

	// Dictation over the invoice form.
	router := dictation.NewRouter(logger)
	router.SetEnabled(saved.Dictation)
	invoice := forms.NewInvoice()
	invoice.Bind(router)

	recognizer := buildRecognizer(ctx, *sttFlag, saved.Language, logger)
	speaker := buildSpeaker(*ttsFlag, logger)

	var srv *web.Server
	ctrl, err := assistant.NewController(
		assistant.WithCommander(client),
		assistant.WithRecognizer(recognizer),
		assistant.WithSpeaker(speaker),
		assistant.WithRouter(router),
		assistant.WithPrefs(store),
		assistant.WithLogger(logger),
		assistant.WithNavigate(func(url string) {
			logger.Info("navigate", "url", url)
		}),
		assistant.WithOnEvent(func(ev assistant.Event) {
			if srv != nil {
				srv.PublishEvent(ev)
			}
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "assistant: %v\n", err)
		os.Exit(1)
	}
	defer ctrl.Close()

	srv = web.NewServer(*port, ctrl, router, invoice, store, logger)
	srv.StartAsync()

	logger.Info("officevoice ready",
		"port", *port,
		"backend", baseURL,
		"listen", ctrl.CanListen(),
		"speak", ctrl.CanSpeak(),
		"dictation", saved.Dictation,
	)

	<-ctx.Done()
	logger.Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

// buildRecognizer assembles the speech-to-text pipeline, degrading to
// nil (trigger disabled) when no provider or microphone is usable.
func buildRecognizer(ctx context.Context, provider, lang string, logger *slog.Logger) speech.Recognizer {
	if provider == "off" {
		return nil
	}
	if !audioio.Available() {
		logger.Warn("no audio capture tool found, listening disabled")
		return nil
	}

	source, err := audioio.NewSource(audioio.DefaultConfig(), logger)
	if err != nil {
		logger.Warn("audio source unavailable", "error", err)
		return nil
	}

	if lang == "" || lang == "auto" {
		lang = prefs.DefaultLanguage
	}

	googleKey := config.Env("GOOGLE_API_KEY", "")
	googleCreds := config.Env("GOOGLE_APPLICATION_CREDENTIALS", "")
	openaiKey := config.Env("OPENAI_API_KEY", "")

	if (provider == "google" || provider == "auto") && (googleKey != "" || googleCreds != "") {
		rec, err := speech.NewGoogle(ctx,
			speech.WithAPIKey(googleKey),
			speech.WithCredentialsFile(googleCreds),
			speech.WithLanguage(lang),
			speech.WithSource(source),
			speech.WithLogger(logger),
		)
		if err == nil {
			logger.Info("speech-to-text", "provider", "google")
			return rec
		}
		logger.Warn("google recognizer unavailable", "error", err)
	}

	if (provider == "whisper" || provider == "auto") && openaiKey != "" {
		rec, err := speech.NewWhisper(
			speech.WithAPIKey(openaiKey),
			speech.WithLanguage(lang),
			speech.WithSource(source),
			speech.WithLogger(logger),
		)
		if err == nil {
			logger.Info("speech-to-text", "provider", "whisper")
			return rec
		}
		logger.Warn("whisper recognizer unavailable", "error", err)
	}

	logger.Warn("no speech-to-text provider configured, listening disabled")
	return nil
}

// buildSpeaker assembles the synthesis pipeline, degrading to nil
// (text-only replies) when ElevenLabs or audio playback is missing.
func buildSpeaker(provider string, logger *slog.Logger) assistant.Speaker {
	if provider == "off" {
		return nil
	}

	key := config.Env("ELEVENLABS_API_KEY", "")
	if key == "" {
		logger.Warn("ELEVENLABS_API_KEY not set, replies are text-only")
		return nil
	}
	if !speech.PlaybackAvailable() {
		logger.Warn("no audio playback tool found, replies are text-only")
		return nil
	}

	engine, err := speech.NewElevenLabs(
		speech.WithAPIKey(key),
		speech.WithLogger(logger),
	)
	if err != nil {
		logger.Warn("elevenlabs unavailable", "error", err)
		return nil
	}

	player, err := speech.NewExecPlayer(logger)
	if err != nil {
		logger.Warn("audio player unavailable", "error", err)
		return nil
	}

	speaker, err := speech.NewSpeaker(engine, player, speech.WithLogger(logger))
	if err != nil {
		logger.Warn("speaker unavailable", "error", err)
		return nil
	}
	logger.Info("text-to-speech", "provider", "elevenlabs")
	return speaker
}
