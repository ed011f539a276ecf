package command

import (
	"log/slog"
	"net/http"
	"time"
)

// Default endpoint paths, matching the office backend's blueprint layout.
const (
	DefaultCommandPath = "/office/assistant/command"
	DefaultStatusPath  = "/office/assistant/status"
)

// Config holds command client configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// BaseURL is the backend base URL, e.g. "http://localhost:5000".
	BaseURL string

	// CommandPath is the POST path for command submission.
	CommandPath string

	// StatusPath is the GET path for the capability probe.
	StatusPath string

	// AuthToken is an optional bearer token.
	AuthToken string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client

	// Logger is the structured logger to use.
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		CommandPath: DefaultCommandPath,
		StatusPath:  DefaultStatusPath,
		Timeout:     30 * time.Second,
		Logger:      slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrNoBaseURL
	}
	return nil
}

// Option is a functional option for configuring the client.
type Option func(*Config)

// WithBaseURL sets the backend base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithCommandPath overrides the command endpoint path.
func WithCommandPath(path string) Option {
	return func(c *Config) {
		c.CommandPath = path
	}
}

// WithStatusPath overrides the status endpoint path.
func WithStatusPath(path string) Option {
	return func(c *Config) {
		c.StatusPath = path
	}
}

// WithAuthToken sets a bearer token for authenticated backends.
func WithAuthToken(token string) Option {
	return func(c *Config) {
		c.AuthToken = token
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
