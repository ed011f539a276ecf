// Package web exposes the assistant over HTTP: trigger endpoints, the
// form model, preferences and a live status stream.
package web

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/officevoice/go-officevoice/pkg/assistant"
	"github.com/officevoice/go-officevoice/pkg/dictation"
	"github.com/officevoice/go-officevoice/pkg/forms"
	"github.com/officevoice/go-officevoice/pkg/hub"
	"github.com/officevoice/go-officevoice/pkg/prefs"
)

// TranscriptEntry is one line of the conversation shown in the UI.
type TranscriptEntry struct {
	Time    string `json:"time"`
	Role    string `json:"role"` // user, assistant, status
	Message string `json:"message"`
}

// Server is the assistant control surface.
type Server struct {
	app    *fiber.App
	port   string
	logger *slog.Logger

	controller *assistant.Controller
	router     *dictation.Router
	invoice    *forms.Invoice
	prefStore  prefs.Store

	// Transcript buffer (last 200 entries)
	transcript   []TranscriptEntry
	transcriptMu sync.RWMutex

	// Hub for websocket status broadcast
	statusHub *hub.Hub
}

// NewServer wires the control surface around an assembled controller.
func NewServer(port string, ctrl *assistant.Controller, router *dictation.Router, invoice *forms.Invoice, store prefs.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		port:       port,
		logger:     logger.With("component", "web"),
		controller: ctrl,
		router:     router,
		invoice:    invoice,
		prefStore:  store,
		transcript: make([]TranscriptEntry, 0, 200),
		statusHub:  hub.New("status", logger),
	}

	app := fiber.New(fiber.Config{
		AppName:               "OfficeVoice",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Post("/listen", s.handleListen)
	api.Post("/greet", s.handleGreet)
	api.Post("/text", s.handleText)
	api.Get("/state", s.handleState)
	api.Get("/prefs", s.handleGetPrefs)
	api.Put("/prefs", s.handlePutPrefs)
	api.Post("/dictation", s.handleDictation)
	api.Get("/transcript", s.handleTranscript)
	api.Get("/fields", s.handleListFields)
	api.Post("/fields/:id/focus", s.handleFocusField)
	api.Put("/fields/:id", s.handleSetField)
	api.Post("/items", s.handleAddItem)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Start runs the server, blocking until shutdown.
func (s *Server) Start() error {
	go s.statusHub.Run()
	s.logger.Info("control surface listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("web server stopped", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// PublishEvent feeds a controller event into the transcript and the
// status stream. Wire it as the controller's OnEvent callback.
func (s *Server) PublishEvent(ev assistant.Event) {
	if ev.Transcript != "" {
		s.addTranscript("user", ev.Transcript)
	}
	if ev.Speak != "" {
		s.addTranscript("assistant", ev.Speak)
	}
	if ev.Status != "" {
		s.addTranscript("status", ev.Status)
	}
	s.statusHub.BroadcastJSON(ev)
}

// addTranscript appends one entry, trimming the buffer.
func (s *Server) addTranscript(role, message string) {
	entry := TranscriptEntry{
		Time:    time.Now().Format("15:04:05"),
		Role:    role,
		Message: message,
	}

	s.transcriptMu.Lock()
	s.transcript = append(s.transcript, entry)
	if len(s.transcript) > 200 {
		s.transcript = s.transcript[1:]
	}
	s.transcriptMu.Unlock()
}

// handleStatusWS streams controller events to a dashboard client.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)
	client.Run()
}
