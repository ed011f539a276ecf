// Package audioio provides microphone capture for speech recognition.
//
// Backends:
//   - Exec - shells out to a capture tool (arecord, sox, ffmpeg)
//   - Mock - CI/testing without hardware
//
// The backend is selected automatically, or can be explicitly specified
// via configuration.
package audioio

import (
	"fmt"
	"time"
)

// Backend represents the audio capture backend type.
type Backend string

const (
	// BackendAuto automatically selects the best available backend.
	BackendAuto Backend = "auto"
	// BackendExec captures via an external recording tool.
	BackendExec Backend = "exec"
	// BackendMock uses a mock implementation for testing.
	BackendMock Backend = "mock"
)

// Config holds audio capture configuration.
type Config struct {
	// Backend specifies which capture backend to use.
	Backend Backend `json:"backend"`

	// SampleRate is the audio sample rate in Hz.
	// Default: 16000 (what the speech APIs expect)
	SampleRate int `json:"sample_rate"`

	// Channels is the number of audio channels. Default: 1 (mono).
	Channels int `json:"channels"`

	// BufferDuration is the size of one captured chunk. Default: 20ms.
	BufferDuration time.Duration `json:"buffer_duration"`

	// Device is the backend-specific device identifier
	// (e.g. ALSA "hw:0,0" for arecord). Empty means system default.
	Device string `json:"device"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:        BackendAuto,
		SampleRate:     16000,
		Channels:       1,
		BufferDuration: 20 * time.Millisecond,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("channels must be positive, got %d", c.Channels)
	}
	if c.BufferDuration <= 0 {
		return fmt.Errorf("buffer_duration must be positive, got %v", c.BufferDuration)
	}
	return nil
}

// ChunkSamples returns the number of samples in one buffer.
func (c *Config) ChunkSamples() int {
	return int(float64(c.SampleRate*c.Channels) * c.BufferDuration.Seconds())
}
