package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// playbackTools lists playback commands in preference order.
// All of them accept encoded audio on stdin.
var playbackTools = []string{"mpg123", "ffplay", "mpv"}

// ExecPlayer plays audio by piping it into an external playback tool.
type ExecPlayer struct {
	logger *slog.Logger
	tool   string
}

// NewExecPlayer creates an exec-based player.
// Returns an error if no playback tool is installed.
func NewExecPlayer(logger *slog.Logger) (*ExecPlayer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var tool string
	for _, t := range playbackTools {
		if _, err := exec.LookPath(t); err == nil {
			tool = t
			break
		}
	}
	if tool == "" {
		return nil, fmt.Errorf("%w: no playback tool found (tried %v)", ErrUnavailable, playbackTools)
	}

	return &ExecPlayer{
		logger: logger.With("component", "speech.player"),
		tool:   tool,
	}, nil
}

// PlaybackAvailable reports whether a playback tool is installed.
func PlaybackAvailable() bool {
	for _, t := range playbackTools {
		if _, err := exec.LookPath(t); err == nil {
			return true
		}
	}
	return false
}

// args builds the playback command line for stdin input.
func (p *ExecPlayer) args() []string {
	switch p.tool {
	case "mpg123":
		return []string{"-q", "-"}
	case "ffplay":
		return []string{"-loglevel", "quiet", "-autoexit", "-nodisp", "-i", "-"}
	case "mpv":
		return []string{"--really-quiet", "--no-video", "-"}
	}
	return nil
}

// Play blocks until the clip finishes or the context is cancelled.
func (p *ExecPlayer) Play(ctx context.Context, clip *Clip) error {
	cmd := exec.CommandContext(ctx, p.tool, p.args()...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("speech: stdin pipe: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("speech: start %s: %w", p.tool, err)
	}

	if _, err := stdin.Write(clip.Audio); err != nil {
		stdin.Close()
		cmd.Wait()
		return fmt.Errorf("speech: write audio: %w", err)
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("speech: %s: %w", p.tool, err)
	}
	return nil
}

// PlayStream blocks until the stream is drained and playback finishes,
// or the context is cancelled.
func (p *ExecPlayer) PlayStream(ctx context.Context, stream *ClipStream) error {
	cmd := exec.CommandContext(ctx, p.tool, p.args()...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("speech: stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("speech: start %s: %w", p.tool, err)
	}

	for chunk := range stream.C {
		if _, err := stdin.Write(chunk); err != nil {
			break
		}
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("speech: %s: %w", p.tool, err)
	}
	return nil
}

// Verify ExecPlayer implements StreamPlayer at compile time.
var _ StreamPlayer = (*ExecPlayer)(nil)
