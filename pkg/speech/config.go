package speech

import (
	"log/slog"
	"time"

	"github.com/officevoice/go-officevoice/pkg/audioio"
)

// Config holds speech provider configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// Provider credentials
	APIKey          string
	CredentialsFile string
	BaseURL         string

	// Language is the BCP-47 tag recognition is biased towards.
	Language string

	// ModelID selects the synthesis model for engines that support it.
	ModelID string

	// Voices overrides the engine's built-in voice table.
	Voices []Voice

	// Source is the audio capture device for recognizers.
	Source audioio.Source

	// Utterance segmentation
	MaxUtterance     time.Duration
	SilenceTail      time.Duration
	SilenceThreshold float64

	// Timeouts
	Timeout time.Duration

	// Observability
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Language:         "en-US",
		ModelID:          ModelMultilingualV2,
		MaxUtterance:     8 * time.Second,
		SilenceTail:      800 * time.Millisecond,
		SilenceThreshold: 0.015,
		Timeout:          30 * time.Second,
		Logger:           slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required credentials are present.
func (c *Config) Validate() error {
	if c.APIKey == "" && c.CredentialsFile == "" {
		return ErrNoAPIKey
	}
	return nil
}

// ValidateWithSource checks credentials plus the audio source.
func (c *Config) ValidateWithSource() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Source == nil {
		return ErrNoSource
	}
	return nil
}

// Option is a functional option for configuring speech providers.
type Option func(*Config)

// WithAPIKey sets the API key for the provider.
func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithCredentialsFile sets a service-account credentials file
// (Google Cloud recognizers).
func WithCredentialsFile(path string) Option {
	return func(c *Config) {
		c.CredentialsFile = path
	}
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithLanguage sets the recognition/synthesis language tag.
func WithLanguage(lang string) Option {
	return func(c *Config) {
		c.Language = lang
	}
}

// WithModel sets the synthesis model ID.
func WithModel(modelID string) Option {
	return func(c *Config) {
		c.ModelID = modelID
	}
}

// WithVoices overrides the engine voice table.
func WithVoices(voices ...Voice) Option {
	return func(c *Config) {
		c.Voices = voices
	}
}

// WithSource sets the audio capture source for recognizers.
func WithSource(src audioio.Source) Option {
	return func(c *Config) {
		c.Source = src
	}
}

// WithMaxUtterance caps how long one capture may run.
func WithMaxUtterance(d time.Duration) Option {
	return func(c *Config) {
		c.MaxUtterance = d
	}
}

// WithSilenceTail sets how much trailing silence ends an utterance.
func WithSilenceTail(d time.Duration) Option {
	return func(c *Config) {
		c.SilenceTail = d
	}
}

// WithSilenceThreshold sets the RMS level below which a chunk counts
// as silence (0.0-1.0).
func WithSilenceThreshold(level float64) Option {
	return func(c *Config) {
		c.SilenceThreshold = level
	}
}

// WithTimeout sets the API request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithLogger sets the structured logger for the provider.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
