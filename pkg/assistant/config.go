package assistant

import (
	"errors"
	"log/slog"
	"time"

	"github.com/officevoice/go-officevoice/pkg/command"
	"github.com/officevoice/go-officevoice/pkg/dictation"
	"github.com/officevoice/go-officevoice/pkg/prefs"
	"github.com/officevoice/go-officevoice/pkg/speech"
)

// Sentinel errors returned by the controller.
var (
	// ErrNoCommander indicates no command client was configured.
	ErrNoCommander = errors.New("assistant: commander is required")
)

// DefaultRedirectDelay is how long after a terminal reply the
// controller waits before navigating, so the reply is audible first.
const DefaultRedirectDelay = 800 * time.Millisecond

// Speaker voices replies. speech.Speaker satisfies this; a nil Speaker
// means synthesis is unavailable and the controller degrades to
// text-only events.
type Speaker interface {
	Speak(text, lang string, onDone func())
	Cancel()
}

// NavigateFunc is invoked with the redirect target of a terminal reply.
type NavigateFunc func(url string)

// Event is emitted on every externally visible change of a turn.
type Event struct {
	TurnID      string `json:"turn_id"`
	State       string `json:"state"`
	Status      string `json:"status,omitempty"`
	Transcript  string `json:"transcript,omitempty"`
	Speak       string `json:"speak,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// EventFunc receives controller events.
type EventFunc func(Event)

// Config holds controller settings.
type Config struct {
	Commander     command.Commander
	Recognizer    speech.Recognizer
	Speaker       Speaker
	Router        *dictation.Router
	Prefs         prefs.Store
	Navigate      NavigateFunc
	OnEvent       EventFunc
	RedirectDelay time.Duration
	Logger        *slog.Logger
}

// Option configures the controller.
type Option func(*Config)

// DefaultConfig returns a config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		RedirectDelay: DefaultRedirectDelay,
		Logger:        slog.Default(),
	}
}

// Apply applies the given options.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks the config for required fields.
func (c *Config) Validate() error {
	if c.Commander == nil {
		return ErrNoCommander
	}
	return nil
}

// WithCommander sets the backend command client.
func WithCommander(cmd command.Commander) Option {
	return func(c *Config) { c.Commander = cmd }
}

// WithRecognizer sets the speech recognizer. Leaving it unset disables
// the listen trigger.
func WithRecognizer(r speech.Recognizer) Option {
	return func(c *Config) { c.Recognizer = r }
}

// WithSpeaker sets the reply speaker. Leaving it unset degrades to
// text-only replies.
func WithSpeaker(s Speaker) Option {
	return func(c *Config) { c.Speaker = s }
}

// WithRouter sets the dictation router.
func WithRouter(r *dictation.Router) Option {
	return func(c *Config) { c.Router = r }
}

// WithPrefs sets the preference store consulted for the reply language.
func WithPrefs(p prefs.Store) Option {
	return func(c *Config) { c.Prefs = p }
}

// WithNavigate sets the redirect callback.
func WithNavigate(fn NavigateFunc) Option {
	return func(c *Config) { c.Navigate = fn }
}

// WithOnEvent sets the event callback.
func WithOnEvent(fn EventFunc) Option {
	return func(c *Config) { c.OnEvent = fn }
}

// WithRedirectDelay overrides the navigation delay.
func WithRedirectDelay(d time.Duration) Option {
	return func(c *Config) { c.RedirectDelay = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}
