package audioio

import (
	"fmt"
	"log/slog"
	"os/exec"
)

// NewSource creates a new audio source with the given configuration.
// If cfg.Backend is BackendAuto, the best available backend is selected.
func NewSource(cfg Config, logger *slog.Logger) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	backend := cfg.Backend
	if backend == BackendAuto {
		backend = detectBestBackend()
	}

	logger.Info("creating audio source",
		"backend", backend,
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"buffer_ms", cfg.BufferDuration.Milliseconds(),
	)

	switch backend {
	case BackendMock:
		return NewMockSource(cfg, logger), nil
	case BackendExec:
		return NewExecSource(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// detectBestBackend picks the exec backend when a capture tool is
// installed, falling back to mock.
func detectBestBackend() Backend {
	for _, tool := range captureTools {
		if _, err := exec.LookPath(tool); err == nil {
			return BackendExec
		}
	}
	return BackendMock
}

// Available reports whether real audio capture is possible on this host.
func Available() bool {
	return detectBestBackend() == BackendExec
}
