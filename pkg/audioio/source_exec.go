package audioio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"sync"
)

// captureTools lists recording commands in preference order.
var captureTools = []string{"arecord", "rec", "ffmpeg"}

// ExecSource captures audio by shelling out to a recording tool
// and reading raw PCM16 from its stdout.
type ExecSource struct {
	cfg    Config
	logger *slog.Logger
	tool   string

	mu      sync.Mutex
	running bool
	closed  bool
	cmd     *exec.Cmd
	stdout  io.ReadCloser
}

// NewExecSource creates an exec-based audio source.
// Returns an error if no recording tool is installed.
func NewExecSource(cfg Config, logger *slog.Logger) (*ExecSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var tool string
	for _, t := range captureTools {
		if _, err := exec.LookPath(t); err == nil {
			tool = t
			break
		}
	}
	if tool == "" {
		return nil, fmt.Errorf("audioio: no capture tool found (tried %v)", captureTools)
	}

	return &ExecSource{
		cfg:    cfg,
		logger: logger.With("component", "audioio.exec"),
		tool:   tool,
	}, nil
}

// args builds the capture command line for the selected tool.
func (s *ExecSource) args() []string {
	rate := strconv.Itoa(s.cfg.SampleRate)
	ch := strconv.Itoa(s.cfg.Channels)

	switch s.tool {
	case "arecord":
		a := []string{"-q", "-f", "S16_LE", "-r", rate, "-c", ch, "-t", "raw"}
		if s.cfg.Device != "" {
			a = append(a, "-D", s.cfg.Device)
		}
		return a
	case "rec":
		return []string{"-q", "-t", "raw", "-b", "16", "-e", "signed", "-r", rate, "-c", ch, "-"}
	case "ffmpeg":
		dev := s.cfg.Device
		if dev == "" {
			dev = "default"
		}
		return []string{
			"-loglevel", "quiet", "-f", "alsa", "-i", dev,
			"-ar", rate, "-ac", ch, "-f", "s16le", "-",
		}
	}
	return nil
}

// Start begins audio capture.
func (s *ExecSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return io.ErrClosedPipe
	}
	if s.running {
		return nil
	}

	cmd := exec.CommandContext(ctx, s.tool, s.args()...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("audioio: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("audioio: start %s: %w", s.tool, err)
	}

	s.cmd = cmd
	s.stdout = stdout
	s.running = true

	s.logger.Debug("capture started", "tool", s.tool, "device", s.cfg.Device)
	return nil
}

// Read reads the next audio chunk, blocking until one buffer is filled.
func (s *ExecSource) Read(ctx context.Context) (AudioChunk, error) {
	s.mu.Lock()
	stdout := s.stdout
	running := s.running
	s.mu.Unlock()

	if !running || stdout == nil {
		return AudioChunk{}, io.EOF
	}

	buf := make([]byte, s.cfg.ChunkSamples()*2)
	if _, err := io.ReadFull(stdout, buf); err != nil {
		return AudioChunk{}, io.EOF
	}

	if err := ctx.Err(); err != nil {
		return AudioChunk{}, err
	}

	var chunk AudioChunk
	chunk.FromBytes(buf, s.cfg.SampleRate, s.cfg.Channels)
	return chunk, nil
}

// Stop halts audio capture.
func (s *ExecSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	}
	s.cmd = nil
	s.stdout = nil

	s.logger.Debug("capture stopped", "tool", s.tool)
	return nil
}

// Config returns the current audio configuration.
func (s *ExecSource) Config() Config {
	return s.cfg
}

// Name returns the backend name.
func (s *ExecSource) Name() string {
	return "exec:" + s.tool
}

// Close releases all resources.
func (s *ExecSource) Close() error {
	if err := s.Stop(); err != nil {
		return err
	}
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Verify ExecSource implements Source at compile time.
var _ Source = (*ExecSource)(nil)
